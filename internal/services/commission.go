package services

import (
	"errors"
	"strconv"
	"time"

	"consignshop/internal/apperr"
	"consignshop/internal/models"

	"gorm.io/gorm"
)

// CommissionService owns the commission lifecycle: report generation,
// verification and payment recording for tracking records.
type CommissionService struct {
	DB *gorm.DB
}

func NewCommissionService(db *gorm.DB) *CommissionService { return &CommissionService{DB: db} }

// CommissionReport is the uniform result of GetOrCreateReport, whether the
// tracking record was freshly computed or replayed from an earlier request.
type CommissionReport struct {
	NoSales  bool                       `json:"no_sales"`
	Tracking *models.CommissionTracking `json:"tracking,omitempty"`
}

// GetOrCreateReport returns the commission report for a consignor and period,
// creating the tracking record on first request. An existing record is
// returned as stored; it is never recomputed, so a generated report stays
// stable even if the underlying sales change later.
func (s *CommissionService) GetOrCreateReport(consignorID uint, periodStart, periodEnd time.Time) (*CommissionReport, error) {
	if consignorID == 0 || periodStart.IsZero() || periodEnd.IsZero() {
		return nil, apperr.New(apperr.Validation, "consignor_id, period_start and period_end are required")
	}

	var existing models.CommissionTracking
	err := s.DB.Preload("Items.SaleItem.Product").Preload("Payments").
		Where("consignor_id = ? AND period_start = ? AND period_end = ?", consignorID, periodStart, periodEnd).
		First(&existing).Error
	if err == nil {
		return &CommissionReport{Tracking: &existing}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.Store, "failed to look up commission tracking", err)
	}

	items, err := s.saleItemsInPeriod(consignorID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		// No record is ever created for an empty period.
		return &CommissionReport{NoSales: true}, nil
	}

	var totalSales, totalCommission float64
	for _, it := range items {
		totalSales += it.LineTotal
		totalCommission += it.Commission
	}

	tracking := models.CommissionTracking{
		ConsignorID:     consignorID,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		TotalSales:      totalSales,
		TotalCommission: totalCommission,
		Status:          models.CommissionPending,
		PaidAmount:      0,
		GeneratedAt:     time.Now(),
	}
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tracking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent request created the record between our lookup
				// and insert; the unique (consignor, period) index caught it.
				return apperr.Wrap(apperr.Conflict, "commission tracking already exists for this period", err)
			}
			return apperr.Wrap(apperr.Store, "failed to create commission tracking", err)
		}
		commissionItems := make([]models.CommissionItem, 0, len(items))
		for _, it := range items {
			commissionItems = append(commissionItems, models.CommissionItem{
				TrackingID:       tracking.ID,
				SaleItemID:       it.ID,
				SaleAmount:       it.LineTotal,
				CommissionRate:   it.CommissionRate,
				CommissionAmount: it.Commission,
			})
		}
		if err := tx.Create(&commissionItems).Error; err != nil {
			// Rolling back also removes the tracking header, so no orphaned
			// record survives a failed item batch.
			return apperr.Wrap(apperr.Store, "failed to create commission items", err)
		}
		return nil
	})
	if txErr != nil {
		var ae *apperr.Error
		if errors.As(txErr, &ae) {
			return nil, ae
		}
		return nil, apperr.Wrap(apperr.Store, "commission report creation failed", txErr)
	}

	var created models.CommissionTracking
	if err := s.DB.Preload("Items.SaleItem.Product").Preload("Payments").First(&created, tracking.ID).Error; err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to reload commission tracking", err)
	}
	return &CommissionReport{Tracking: &created}, nil
}

// saleItemsInPeriod loads a consignor's sale items whose parent sale falls in
// [start, end], end inclusive.
func (s *CommissionService) saleItemsInPeriod(consignorID uint, start, end time.Time) ([]models.SaleItem, error) {
	var items []models.SaleItem
	err := s.DB.
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("products.consignor_id = ?", consignorID).
		Where("sales.sale_date >= ? AND sales.sale_date < ?", start, end.AddDate(0, 0, 1)).
		Preload("Product").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to query sale items for period", err)
	}
	return items, nil
}

// Verify checks whether a tracking record may legally be paid and returns it.
func (s *CommissionService) Verify(trackingID uint) (*models.CommissionTracking, error) {
	var tracking models.CommissionTracking
	if err := s.DB.First(&tracking, trackingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "commission tracking not found")
		}
		return nil, apperr.Wrap(apperr.Store, "failed to load commission tracking", err)
	}
	if tracking.Status == models.CommissionPaid {
		return nil, apperr.New(apperr.Conflict, "already paid")
	}
	if !tracking.Status.Payable() {
		return nil, apperr.Newf(apperr.Conflict, "unpayable status: %s", tracking.Status)
	}
	return &tracking, nil
}

// PaymentInput carries the fields of a payment request. Reference fields are
// optional and method-specific.
type PaymentInput struct {
	TrackingID           uint    `json:"commission_tracking_id"`
	Amount               float64 `json:"amount"`
	PaymentDate          string  `json:"payment_date"`
	PaymentMethod        string  `json:"payment_method"`
	TransactionReference string  `json:"transaction_reference"`
	BankName             string  `json:"bank_name"`
	AccountLastFour      string  `json:"account_last_four"`
	CardLastFour         string  `json:"card_last_four"`
	CardType             string  `json:"card_type"`
}

// RecordPayment is the only state transition for a tracking record:
// pending/calculated -> paid, exactly once. The status is re-checked here
// regardless of any earlier Verify call, and the submitted amount must equal
// the commission due exactly; partial payments are not supported.
func (s *CommissionService) RecordPayment(in PaymentInput) (*models.CommissionPayment, error) {
	violations := map[string]string{}
	if in.TrackingID == 0 {
		violations["commission_tracking_id"] = "required"
	}
	if in.Amount == 0 {
		violations["amount"] = "required"
	}
	if in.PaymentMethod == "" {
		violations["payment_method"] = "required"
	}
	paymentDate, derr := time.Parse("2006-01-02", in.PaymentDate)
	if in.PaymentDate == "" {
		violations["payment_date"] = "required"
	} else if derr != nil {
		violations["payment_date"] = "invalid_date"
	}
	if len(violations) > 0 {
		return nil, apperr.New(apperr.Validation, "missing or invalid payment fields").WithDetail(violations)
	}

	var payment models.CommissionPayment
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var tracking models.CommissionTracking
		if err := tx.First(&tracking, in.TrackingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "commission tracking not found")
			}
			return apperr.Wrap(apperr.Store, "failed to load commission tracking", err)
		}
		if tracking.Status == models.CommissionPaid {
			return apperr.New(apperr.Conflict, "already paid")
		}
		if !tracking.Status.Payable() {
			return apperr.Newf(apperr.Conflict, "unpayable status: %s", tracking.Status)
		}
		if in.Amount != tracking.TotalCommission {
			return apperr.Newf(apperr.Validation, "payment amount %s does not match commission due %s",
				strconv.FormatFloat(in.Amount, 'f', -1, 64),
				strconv.FormatFloat(tracking.TotalCommission, 'f', -1, 64))
		}
		payment = models.CommissionPayment{
			TrackingID:           tracking.ID,
			Amount:               in.Amount,
			Date:                 paymentDate,
			Method:               in.PaymentMethod,
			TransactionReference: in.TransactionReference,
			BankName:             in.BankName,
			AccountLastFour:      in.AccountLastFour,
			CardLastFour:         in.CardLastFour,
			CardType:             in.CardType,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return apperr.Wrap(apperr.Store, "failed to record payment", err)
		}
		if err := tx.Model(&models.CommissionTracking{}).Where("id = ?", tracking.ID).
			Updates(map[string]any{"status": models.CommissionPaid, "paid_amount": in.Amount}).Error; err != nil {
			// The transaction rolls the payment back too; the wording still
			// tells operators which half of the transition failed.
			return apperr.Wrap(apperr.Consistency, "payment recorded but failed to update status", err)
		}
		return nil
	})
	if txErr != nil {
		var ae *apperr.Error
		if errors.As(txErr, &ae) {
			return nil, ae
		}
		return nil, apperr.Wrap(apperr.Store, "payment recording failed", txErr)
	}
	return &payment, nil
}

// ListByStatus returns tracking records filtered to paid or outstanding,
// joined with consignor display fields. Outstanding records are ordered by
// period end, paid ones by the time they were last touched.
func (s *CommissionService) ListByStatus(paid bool) ([]models.CommissionTracking, error) {
	var out []models.CommissionTracking
	q := s.DB.Preload("Consignor")
	if paid {
		q = q.Where("status = ?", models.CommissionPaid).Order("updated_at desc")
	} else {
		q = q.Where("status IN ?", []models.CommissionStatus{models.CommissionPending, models.CommissionCalculated}).
			Order("period_end desc")
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to list commission trackings", err)
	}
	return out, nil
}

// Details loads one tracking record with its items, sale/product context and
// any payments.
func (s *CommissionService) Details(trackingID uint) (*models.CommissionTracking, error) {
	var tracking models.CommissionTracking
	err := s.DB.Preload("Consignor").
		Preload("Items.SaleItem.Product").
		Preload("Items.SaleItem.Sale").
		Preload("Payments").
		First(&tracking, trackingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "commission tracking not found")
		}
		return nil, apperr.Wrap(apperr.Store, "failed to load commission tracking", err)
	}
	return &tracking, nil
}
