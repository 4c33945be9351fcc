package gorm

import "time"

// CompatibilityRecord links a product to a vehicle it fits. Rows written
// before the vehicle registry existed carry only the free-text label
// (legacy form); rows written after carry the vehicle foreign key as well.
// At least one of VehicleID and CompatLabel is always present.
type CompatibilityRecord struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	ProductID   string    `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	VehicleID   *string   `gorm:"column:vehicle_id;type:uuid;index" json:"vehicle_id"`
	CompatLabel *string   `gorm:"column:compat_label;type:text" json:"compat_label"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Product Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsLegacy reports whether the row predates the vehicle registry.
func (c *CompatibilityRecord) IsLegacy() bool {
	return c.VehicleID == nil
}

// TableName specifies the table name for GORM
func (CompatibilityRecord) TableName() string {
	return "product_compatibility"
}
