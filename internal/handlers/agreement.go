package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"consignshop/internal/httpx"
	"consignshop/internal/models"
	"consignshop/internal/validation"

	"gorm.io/gorm"
)

type AgreementHandler struct {
	DB *gorm.DB
}

func NewAgreementHandler(db *gorm.DB) *AgreementHandler { return &AgreementHandler{DB: db} }

type agreementInput struct {
	ProductID            uint     `json:"product_id"`
	ConsignorID          uint     `json:"consignor_id"`
	CommissionRate       float64  `json:"commission_rate"`
	UnsoldItemPolicy     string   `json:"unsold_item_policy"`
	ReturnFallbackDays   *int     `json:"return_fallback_days"`
	CharityChoice        *string  `json:"charity_choice"`
	StorePurchaseOption  bool     `json:"store_purchase_option"`
	StorePurchasePercent float64  `json:"store_purchase_percent"`
	EffectiveFrom        string   `json:"effective_from"`
	EffectiveTo          *string  `json:"effective_to"`
	Discounts            []struct {
		DaysAfterListing int     `json:"days_after_listing"`
		DiscountPercent  float64 `json:"discount_percent"`
	} `json:"discounts"`
}

// validatePolicy enforces the conditional-field invariant: the policy decides
// which of return_fallback_days / charity_choice must be set, and the other
// must be absent.
func validatePolicy(in agreementInput, v validation.Violations) {
	validation.OneOf("unsold_item_policy", in.UnsoldItemPolicy,
		[]string{models.PolicyKeep, models.PolicyReturn, models.PolicyDonate}, v)
	switch in.UnsoldItemPolicy {
	case models.PolicyReturn:
		if in.ReturnFallbackDays == nil || *in.ReturnFallbackDays <= 0 {
			v["return_fallback_days"] = "required_for_return_policy"
		}
		if in.CharityChoice != nil {
			v["charity_choice"] = "only_valid_for_donate_policy"
		}
	case models.PolicyDonate:
		if in.CharityChoice == nil || *in.CharityChoice == "" {
			v["charity_choice"] = "required_for_donate_policy"
		}
		if in.ReturnFallbackDays != nil {
			v["return_fallback_days"] = "only_valid_for_return_policy"
		}
	case models.PolicyKeep:
		if in.ReturnFallbackDays != nil {
			v["return_fallback_days"] = "only_valid_for_return_policy"
		}
		if in.CharityChoice != nil {
			v["charity_choice"] = "only_valid_for_donate_policy"
		}
	}
}

func (h *AgreementHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	dbq := h.DB.Model(&models.Agreement{})
	if cid := r.URL.Query().Get("consignor_id"); cid != "" {
		dbq = dbq.Where("consignor_id = ?", cid)
	}
	if pid := r.URL.Query().Get("product_id"); pid != "" {
		dbq = dbq.Where("product_id = ?", pid)
	}
	var total int64
	dbq.Count(&total)
	var agreements []models.Agreement
	if err := dbq.Preload("Discounts").Preload("Product").Preload("Consignor").
		Order("id desc").Limit(limit).Offset(offset).Find(&agreements).Error; err != nil {
		writeStoreError(w, r, err, "failed to list agreements")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": agreements, "total": total, "limit": limit, "offset": offset})
}

func (h *AgreementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in agreementInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	v := validation.Violations{}
	validation.RequiredID("product_id", in.ProductID, v)
	validation.RequiredID("consignor_id", in.ConsignorID, v)
	validation.RangeFloat("commission_rate", in.CommissionRate, 0, 1, v)
	validatePolicy(in, v)
	if in.StorePurchaseOption {
		validation.RangeFloat("store_purchase_percent", in.StorePurchasePercent, 0, 100, v)
	}
	effectiveFrom := time.Now()
	if in.EffectiveFrom != "" {
		effectiveFrom = validation.Date("effective_from", in.EffectiveFrom, v)
	}
	var effectiveTo *time.Time
	if in.EffectiveTo != nil {
		t := validation.Date("effective_to", *in.EffectiveTo, v)
		effectiveTo = &t
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}

	ag := models.Agreement{
		ProductID:            in.ProductID,
		ConsignorID:          in.ConsignorID,
		CommissionRate:       in.CommissionRate,
		UnsoldItemPolicy:     in.UnsoldItemPolicy,
		ReturnFallbackDays:   in.ReturnFallbackDays,
		CharityChoice:        in.CharityChoice,
		StorePurchaseOption:  in.StorePurchaseOption,
		StorePurchasePercent: in.StorePurchasePercent,
		EffectiveFrom:        effectiveFrom,
		EffectiveTo:          effectiveTo,
	}
	for _, d := range in.Discounts {
		ag.Discounts = append(ag.Discounts, models.AgreementDiscount{
			DaysAfterListing: d.DaysAfterListing,
			DiscountPercent:  d.DiscountPercent,
		})
	}
	if err := h.DB.Create(&ag).Error; err != nil {
		writeStoreError(w, r, err, "failed to create agreement")
		return
	}
	httpx.JSON(w, http.StatusCreated, ag)
}

func (h *AgreementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	var ag models.Agreement
	if err := h.DB.Preload("Discounts").First(&ag, id).Error; err != nil {
		writeStoreError(w, r, err, "failed to load agreement")
		return
	}
	var in agreementInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	v := validation.Violations{}
	if in.CommissionRate != 0 {
		validation.RangeFloat("commission_rate", in.CommissionRate, 0, 1, v)
	}
	if in.UnsoldItemPolicy != "" {
		validatePolicy(in, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}
	if in.CommissionRate != 0 {
		ag.CommissionRate = in.CommissionRate
	}
	if in.UnsoldItemPolicy != "" {
		ag.UnsoldItemPolicy = in.UnsoldItemPolicy
		ag.ReturnFallbackDays = in.ReturnFallbackDays
		ag.CharityChoice = in.CharityChoice
	}
	ag.StorePurchaseOption = in.StorePurchaseOption
	ag.StorePurchasePercent = in.StorePurchasePercent

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&ag).Error; err != nil {
			return err
		}
		if in.Discounts != nil {
			// The markdown schedule is replaced wholesale on update.
			if err := tx.Where("agreement_id = ?", ag.ID).Delete(&models.AgreementDiscount{}).Error; err != nil {
				return err
			}
			discounts := make([]models.AgreementDiscount, 0, len(in.Discounts))
			for _, d := range in.Discounts {
				discounts = append(discounts, models.AgreementDiscount{
					AgreementID:      ag.ID,
					DaysAfterListing: d.DaysAfterListing,
					DiscountPercent:  d.DiscountPercent,
				})
			}
			if len(discounts) > 0 {
				if err := tx.Create(&discounts).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		writeStoreError(w, r, err, "failed to update agreement")
		return
	}
	var updated models.Agreement
	if err := h.DB.Preload("Discounts").First(&updated, ag.ID).Error; err != nil {
		writeStoreError(w, r, err, "failed to reload agreement")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *AgreementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("agreement_id = ?", id).Delete(&models.AgreementDiscount{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Agreement{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		writeStoreError(w, r, err, "failed to delete agreement")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
