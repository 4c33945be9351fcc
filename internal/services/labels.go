package services

import (
	"fmt"
	"strings"

	gormModels "gearhouse/catalog/internal/models/gorm"
)

// VehicleLabel synthesizes the display label for a vehicle:
// "Toyota Fielder NZE141" or "Toyota Fielder NZE141 (2006-2012)".
// An open-ended range renders as "(2006-present)".
func VehicleLabel(v *gormModels.Vehicle) string {
	label := fmt.Sprintf("%s %s %s", v.Brand, v.Model, v.Code)
	if v.YearStart == nil {
		return label
	}

	end := "present"
	if v.YearEnd != nil {
		end = fmt.Sprintf("%d", *v.YearEnd)
	}
	return fmt.Sprintf("%s (%d-%s)", label, *v.YearStart, end)
}

// ParseLegacyLabel splits a free-text compatibility label into best-effort
// brand/model/code: first token brand, second model, the rest code. Any
// token may come back empty; malformed labels never error.
func ParseLegacyLabel(label string) (brand, model, code string) {
	fields := strings.Fields(label)
	if len(fields) > 0 {
		brand = fields[0]
	}
	if len(fields) > 1 {
		model = fields[1]
	}
	if len(fields) > 2 {
		code = strings.Join(fields[2:], " ")
	}
	return brand, model, code
}
