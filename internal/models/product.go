package models

import (
	"time"

	"gorm.io/gorm"
)

// Product status values as the item moves through the shop.
const (
	ProductListed   = "listed"
	ProductSold     = "sold"
	ProductReturned = "returned"
	ProductDonated  = "donated"
)

// Product is a consigned item offered for sale.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ConsignorID uint      `gorm:"not null;index:idx_consignor_sku,priority:1" json:"consignor_id"`
	Consignor   Consignor `gorm:"foreignKey:ConsignorID" json:"consignor,omitempty"`
	// SKU is unique per consignor; gives staff a readable identifier.
	SKU             string         `gorm:"size:40;not null;index:idx_consignor_sku,unique,priority:2" json:"sku"`
	Name            string         `gorm:"not null" json:"name"`
	Description     string         `json:"description"`
	Category        string         `gorm:"index" json:"category"`
	UnitPrice       float64        `gorm:"not null" json:"unit_price"`
	QuantityInStock int            `gorm:"not null;default:0" json:"quantity_in_stock"`
	Status          string         `gorm:"not null;default:'listed'" json:"status"`
	ListedAt        time.Time      `json:"listed_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
