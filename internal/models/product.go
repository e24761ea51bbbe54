package models

import "time"

// Categories a product can belong to.
const (
	CategoryMen   = "Men"
	CategoryWomen = "Women"
	CategoryKids  = "Kids"
)

// Fits a product can be cut in.
const (
	FitSlim      = "Slim"
	FitRegular   = "Regular"
	FitOversized = "Oversized"
)

// Product represents a clothing item in the catalog.
//
// FinalPrice is derived from Price and Discount and is never set
// independently; it is recomputed on every create and update.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" validate:"required"`
	Brand       string    `json:"brand" validate:"required"`
	Category    string    `json:"category" validate:"required,oneof=Men Women Kids"`
	Description string    `json:"description" validate:"required"`
	Sizes       []string  `json:"sizes" gorm:"serializer:json" validate:"required,min=1,unique,dive,required"`
	Colors      string    `json:"colors" validate:"required"`
	Material    string    `json:"material" validate:"required"`
	Fit         string    `json:"fit" validate:"required,oneof=Slim Regular Oversized"`
	Stock       int       `json:"stock" validate:"gte=0"`
	SKU         string    `json:"sku" validate:"required"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Discount    float64   `json:"discount" validate:"gte=0,lte=90"`
	FinalPrice  float64   `json:"finalPrice"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
