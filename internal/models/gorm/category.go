package gorm

import "time"

// Category groups products in the storefront navigation.
type Category struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Slug      string    `gorm:"column:slug;type:varchar(150);not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "categories"
}
