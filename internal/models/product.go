package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Category struct {
	ID       string `gorm:"column:id;type:text;primaryKey" json:"id"`
	Name     string `gorm:"column:name;type:text" json:"name"`
	Position int    `gorm:"column:position;type:integer" json:"position"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          string `gorm:"column:id;type:text;primaryKey" json:"id"`
	Name        string `gorm:"column:name;type:text" json:"name"`
	CategoryID  string `gorm:"column:category_id;type:text;index" json:"categoryId"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`

	Tags pq.StringArray `gorm:"column:tags;type:text[]" json:"tags,omitempty"`

	// free-form attributes shown in the zoom dialog (strength, pack size, ...)
	Attributes datatypes.JSON `gorm:"column:attributes;type:jsonb" json:"attributes,omitempty"`

	Images []ProductImage `gorm:"foreignKey:ProductID" json:"images"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

type ProductImage struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID string `gorm:"column:product_id;type:text;index" json:"-"`
	Src       string `gorm:"column:src;type:text" json:"src"`
	Alt       string `gorm:"column:alt;type:text" json:"alt"`
	PublicID  string `gorm:"column:public_id;type:text" json:"publicId,omitempty"`
	Position  int    `gorm:"column:position;type:integer" json:"position"`
}

func (ProductImage) TableName() string { return "product_images" }
