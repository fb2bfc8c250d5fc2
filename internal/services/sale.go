package services

import (
	"errors"
	"time"

	"consignshop/internal/apperr"
	"consignshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleService creates sales and snapshots commission terms at the moment of
// sale, so later agreement changes never rewrite sale history.
type SaleService struct {
	DB *gorm.DB
}

func NewSaleService(db *gorm.DB) *SaleService { return &SaleService{DB: db} }

// SaleItemInput is one requested line of a sale.
type SaleItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// SaleInput is the body of a sale creation request.
type SaleInput struct {
	SaleDate      string          `json:"sale_date"`
	PaymentMethod string          `json:"payment_method"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Items         []SaleItemInput `json:"items"`
}

// Create validates the input, prices each line from the product and its
// current agreement (applying the markdown schedule), and persists the sale
// header plus items in one transaction. Stock is decremented per line and a
// product whose stock reaches zero is marked sold.
func (s *SaleService) Create(in SaleInput) (*models.Sale, error) {
	violations := map[string]string{}
	if in.PaymentMethod == "" {
		violations["payment_method"] = "required"
	}
	saleDate := time.Now()
	if in.SaleDate != "" {
		d, err := time.Parse("2006-01-02", in.SaleDate)
		if err != nil {
			violations["sale_date"] = "invalid_date"
		} else {
			saleDate = d
		}
	}
	if len(in.Items) == 0 {
		violations["items"] = "required"
	}
	for _, it := range in.Items {
		if it.ProductID == 0 || it.Quantity <= 0 {
			violations["items"] = "invalid_product_or_quantity"
			break
		}
	}
	if len(violations) > 0 {
		return nil, apperr.New(apperr.Validation, "missing or invalid sale fields").WithDetail(violations)
	}

	sale := models.Sale{
		InvoiceNumber: uuid.NewString(),
		SaleDate:      saleDate,
		PaymentMethod: in.PaymentMethod,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		items := make([]models.SaleItem, 0, len(in.Items))
		var total float64
		for _, req := range in.Items {
			var product models.Product
			if err := tx.First(&product, req.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Newf(apperr.Validation, "unknown product %d", req.ProductID)
				}
				return apperr.Wrap(apperr.Store, "failed to load product", err)
			}
			if product.QuantityInStock < req.Quantity {
				return apperr.Newf(apperr.Conflict, "insufficient stock for product %d", product.ID)
			}
			agreement, err := s.activeAgreement(tx, product.ID, saleDate)
			if err != nil {
				return err
			}
			unitPrice := discountedPrice(product, agreement, saleDate)
			lineTotal := float64(req.Quantity) * unitPrice
			items = append(items, models.SaleItem{
				ProductID:      product.ID,
				Quantity:       req.Quantity,
				UnitPrice:      unitPrice,
				LineTotal:      lineTotal,
				CommissionRate: agreement.CommissionRate,
				Commission:     lineTotal * agreement.CommissionRate,
			})
			total += lineTotal

			remaining := product.QuantityInStock - req.Quantity
			updates := map[string]any{"quantity_in_stock": remaining}
			if remaining == 0 {
				updates["status"] = models.ProductSold
			}
			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
				return apperr.Wrap(apperr.Store, "failed to update product stock", err)
			}
		}
		sale.Total = total
		if err := tx.Create(&sale).Error; err != nil {
			return apperr.Wrap(apperr.Store, "failed to create sale", err)
		}
		for i := range items {
			items[i].SaleID = sale.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return apperr.Wrap(apperr.Store, "failed to create sale items", err)
		}
		return nil
	})
	if txErr != nil {
		var ae *apperr.Error
		if errors.As(txErr, &ae) {
			return nil, ae
		}
		return nil, apperr.Wrap(apperr.Store, "sale creation failed", txErr)
	}

	var created models.Sale
	if err := s.DB.Preload("Items.Product").First(&created, sale.ID).Error; err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to reload sale", err)
	}
	return &created, nil
}

// activeAgreement returns the agreement in effect for the product on the sale
// date; a product without one cannot be sold on commission.
func (s *SaleService) activeAgreement(tx *gorm.DB, productID uint, at time.Time) (*models.Agreement, error) {
	var ag models.Agreement
	err := tx.Preload("Discounts").
		Where("product_id = ?", productID).
		Where("effective_from <= ?", at).
		Where("effective_to IS NULL OR effective_to >= ?", at).
		Order("effective_from desc").
		First(&ag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.Conflict, "no active agreement for product %d", productID)
		}
		return nil, apperr.Wrap(apperr.Store, "failed to load agreement", err)
	}
	return &ag, nil
}

// discountedPrice applies the agreement's markdown schedule: the step with the
// largest qualifying days_after_listing wins.
func discountedPrice(p models.Product, ag *models.Agreement, at time.Time) float64 {
	price := p.UnitPrice
	if p.ListedAt.IsZero() || len(ag.Discounts) == 0 {
		return price
	}
	daysListed := int(at.Sub(p.ListedAt).Hours() / 24)
	best := -1
	var pct float64
	for _, d := range ag.Discounts {
		if daysListed >= d.DaysAfterListing && d.DaysAfterListing > best {
			best = d.DaysAfterListing
			pct = d.DiscountPercent
		}
	}
	if best < 0 {
		return price
	}
	return price * (1 - pct/100)
}
