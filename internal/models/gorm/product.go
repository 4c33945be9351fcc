package gorm

import "time"

// Product is a catalog item. Media entries are URLs produced by the external
// upload pipeline; this service stores them opaquely.
type Product struct {
	ID         string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	CategoryID string    `gorm:"column:category_id;type:uuid;not null;index" json:"category_id"`
	Name       string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug       string    `gorm:"column:slug;type:varchar(300);not null;uniqueIndex" json:"slug"`
	Price      float64   `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	SalePrice  *float64  `gorm:"column:sale_price;type:numeric(12,2)" json:"sale_price"`
	Stock      int       `gorm:"column:stock;type:integer;not null;default:0" json:"stock"`
	Condition  string    `gorm:"column:condition;type:varchar(30);not null;default:'used'" json:"condition"`
	MediaURLs  string    `gorm:"column:media_urls;type:jsonb;default:'[]'" json:"media_urls"`
	IsFeatured bool      `gorm:"column:is_featured;default:false" json:"is_featured"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName specifies the table name for GORM
func (Product) TableName() string {
	return "products"
}
