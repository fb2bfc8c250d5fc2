package models

import "time"

// CommissionStatus is the closed set of lifecycle states for a tracking record.
type CommissionStatus string

const (
	CommissionPending    CommissionStatus = "pending"
	CommissionCalculated CommissionStatus = "calculated"
	CommissionPaid       CommissionStatus = "paid"
)

// Payable reports whether a record in this state may still be paid.
func (s CommissionStatus) Payable() bool {
	return s == CommissionPending || s == CommissionCalculated
}

// Known reports whether the value is one of the defined states. Rows written by
// older tooling can carry stray values; callers reject those rather than crash.
func (s CommissionStatus) Known() bool {
	switch s {
	case CommissionPending, CommissionCalculated, CommissionPaid:
		return true
	}
	return false
}

// CommissionTracking is the commission owed to one consignor over one period.
// The (consignor, period_start, period_end) triple is unique; the composite
// index backs up the lookup-before-create done by the commission service.
type CommissionTracking struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ConsignorID uint      `gorm:"not null;index:idx_consignor_period,unique,priority:1" json:"consignor_id"`
	Consignor   Consignor `gorm:"foreignKey:ConsignorID" json:"consignor,omitempty"`
	PeriodStart time.Time `gorm:"not null;index:idx_consignor_period,unique,priority:2" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null;index:idx_consignor_period,unique,priority:3" json:"period_end"`

	TotalSales      float64          `gorm:"not null" json:"total_sales"`
	TotalCommission float64          `gorm:"not null" json:"total_commission"`
	Status          CommissionStatus `gorm:"not null;default:'pending'" json:"status"`
	PaidAmount      float64          `gorm:"not null;default:0" json:"paid_amount"`

	Items    []CommissionItem    `gorm:"foreignKey:TrackingID" json:"items,omitempty"`
	Payments []CommissionPayment `gorm:"foreignKey:TrackingID" json:"payments,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommissionItem pins one contributing sale line to its tracking record.
type CommissionItem struct {
	ID               uint     `gorm:"primaryKey" json:"id"`
	TrackingID       uint     `gorm:"not null;index" json:"tracking_id"`
	SaleItemID       uint     `gorm:"not null;index" json:"sale_item_id"`
	SaleItem         SaleItem `gorm:"foreignKey:SaleItemID" json:"sale_item,omitempty"`
	SaleAmount       float64  `gorm:"not null" json:"sale_amount"`
	CommissionRate   float64  `gorm:"not null" json:"commission_rate"`
	CommissionAmount float64  `gorm:"not null" json:"commission_amount"`
}

// CommissionPayment is one payment event against a tracking record. A paid
// record has exactly one; the service enforces that, not the schema.
type CommissionPayment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TrackingID uint      `gorm:"not null;index" json:"commission_tracking_id"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Date       time.Time `gorm:"not null" json:"payment_date"`
	Method     string    `gorm:"not null" json:"payment_method"` // transfer, cheque, card, cash

	TransactionReference string `json:"transaction_reference,omitempty"`
	BankName             string `json:"bank_name,omitempty"`
	AccountLastFour      string `json:"account_last_four,omitempty"`
	CardLastFour         string `json:"card_last_four,omitempty"`
	CardType             string `json:"card_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
