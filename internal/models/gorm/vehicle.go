package gorm

import "time"

// Vehicle is a registry entry in the normalized vehicle catalog.
// (brand, model, code) is unique; the slug is derived from the same triple.
type Vehicle struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Brand     string    `gorm:"column:brand;type:varchar(100);not null;uniqueIndex:,composite:vehicle_identity_unique" json:"brand"`
	Model     string    `gorm:"column:model;type:varchar(100);not null;uniqueIndex:,composite:vehicle_identity_unique" json:"model"`
	Code      string    `gorm:"column:code;type:varchar(50);not null;uniqueIndex:,composite:vehicle_identity_unique" json:"code"`
	YearStart *int      `gorm:"column:year_start;type:integer" json:"year_start"`
	YearEnd   *int      `gorm:"column:year_end;type:integer" json:"year_end"`
	IsPopular bool      `gorm:"column:is_popular;default:false;index" json:"is_popular"`
	Slug      string    `gorm:"column:slug;type:varchar(255);not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Vehicle) TableName() string {
	return "vehicles"
}
