package models

import "time"

// Unsold-item disposition policies.
const (
	PolicyKeep   = "keep"
	PolicyReturn = "return"
	PolicyDonate = "donate"
)

// Agreement holds the consignment terms for one product/consignor pair.
// Exactly one of ReturnFallbackDays / CharityChoice is populated, driven by
// UnsoldItemPolicy (return -> fallback days, donate -> charity, keep -> neither).
type Agreement struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProductID      uint      `gorm:"not null;index" json:"product_id"`
	Product        Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ConsignorID    uint      `gorm:"not null;index" json:"consignor_id"`
	Consignor      Consignor `gorm:"foreignKey:ConsignorID" json:"consignor,omitempty"`
	CommissionRate float64   `gorm:"not null" json:"commission_rate"` // fraction, 0..1

	UnsoldItemPolicy   string `gorm:"not null;default:'keep'" json:"unsold_item_policy"`
	ReturnFallbackDays *int   `json:"return_fallback_days,omitempty"`
	CharityChoice      *string `json:"charity_choice,omitempty"`

	StorePurchaseOption  bool    `gorm:"not null;default:false" json:"store_purchase_option"`
	StorePurchasePercent float64 `json:"store_purchase_percent"`

	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`

	Discounts []AgreementDiscount `gorm:"foreignKey:AgreementID" json:"discounts,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AgreementDiscount is one step of the markdown schedule: after
// DaysAfterListing days on the floor, the sale price drops by DiscountPercent.
type AgreementDiscount struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	AgreementID      uint    `gorm:"not null;index" json:"agreement_id"`
	DaysAfterListing int     `gorm:"not null" json:"days_after_listing"`
	DiscountPercent  float64 `gorm:"not null" json:"discount_percent"`
}
