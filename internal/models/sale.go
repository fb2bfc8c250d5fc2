package models

import "time"

// Sale is a till transaction; it owns one or more line items.
type Sale struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	InvoiceNumber string     `gorm:"size:64;not null;unique" json:"invoice_number"`
	SaleDate      time.Time  `gorm:"not null;index" json:"sale_date"`
	PaymentMethod string     `gorm:"not null" json:"payment_method"` // cash, card, transfer
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	Total         float64    `gorm:"not null" json:"total"`
	Items         []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SaleItem carries the commission snapshot taken from the product's agreement
// at the moment of sale, so later rate changes never rewrite history.
type SaleItem struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	SaleID         uint    `gorm:"not null;index" json:"sale_id"`
	Sale           Sale    `gorm:"foreignKey:SaleID" json:"-"`
	ProductID      uint    `gorm:"not null;index" json:"product_id"`
	Product        Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity       int     `gorm:"not null" json:"quantity"`
	UnitPrice      float64 `gorm:"not null" json:"unit_price"`
	LineTotal      float64 `gorm:"not null" json:"line_total"`
	CommissionRate float64 `gorm:"not null" json:"commission_rate"`
	Commission     float64 `gorm:"not null" json:"commission"`
}
