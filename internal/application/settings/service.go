package settings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/settings"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UpdatePaymentSettingsRequest replaces the payment settings of the caller's vendor
type UpdatePaymentSettingsRequest struct {
	BankName       string `json:"bank_name" binding:"max=100"`
	AccountHolder  string `json:"account_holder" binding:"max=100"`
	IBAN           string `json:"iban" binding:"max=42"`
	PayoutSchedule string `json:"payout_schedule" binding:"required,oneof=weekly biweekly monthly"`
	CashOnDelivery bool   `json:"cash_on_delivery"`
	CardPayments   bool   `json:"card_payments"`
}

// PaymentSettingsResponse represents payment settings in API responses.
// The IBAN is masked.
type PaymentSettingsResponse struct {
	VendorID       uuid.UUID  `json:"vendor_id"`
	BankName       string     `json:"bank_name"`
	AccountHolder  string     `json:"account_holder"`
	IBAN           string     `json:"iban"`
	HasIBAN        bool       `json:"has_iban"`
	PayoutSchedule string     `json:"payout_schedule"`
	CashOnDelivery bool       `json:"cash_on_delivery"`
	CardPayments   bool       `json:"card_payments"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

func toResponse(s *settings.PaymentSettings, stored bool) PaymentSettingsResponse {
	resp := PaymentSettingsResponse{
		VendorID:       s.VendorID,
		BankName:       s.BankName,
		AccountHolder:  s.AccountHolder,
		IBAN:           s.MaskedIBAN(),
		HasIBAN:        s.IBAN != "",
		PayoutSchedule: string(s.PayoutSchedule),
		CashOnDelivery: s.CashOnDelivery,
		CardPayments:   s.CardPayments,
	}
	if stored {
		at := s.UpdatedAt
		resp.UpdatedAt = &at
	}
	return resp
}

// Service reads and writes seller payment settings
type Service struct {
	repo     settings.PaymentSettingsRepository
	recorder appaudit.Recorder
	logger   *zap.Logger
}

// NewService creates a new settings Service
func NewService(repo settings.PaymentSettingsRepository, recorder appaudit.Recorder, logger *zap.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

// GetPaymentSettings returns the vendor's settings, or the defaults when none were saved
func (s *Service) GetPaymentSettings(ctx context.Context, vendorID uuid.UUID) (*PaymentSettingsResponse, error) {
	ps, stored, err := s.find(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(ps, stored)
	return &resp, nil
}

// UpdatePaymentSettings saves the vendor's settings. An empty IBAN keeps the
// stored one so that the masked value never has to be sent back.
func (s *Service) UpdatePaymentSettings(ctx context.Context, vendorID uuid.UUID, req UpdatePaymentSettingsRequest) (*PaymentSettingsResponse, error) {
	ps, _, err := s.find(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	iban := req.IBAN
	if iban == "" {
		iban = ps.IBAN
	}
	if err := ps.Update(req.BankName, req.AccountHolder, iban, settings.PayoutSchedule(req.PayoutSchedule), req.CashOnDelivery, req.CardPayments); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ps); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.ActionUpdate, "payment_settings", vendorID.String(), map[string]any{
		"payout_schedule":  ps.PayoutSchedule,
		"cash_on_delivery": ps.CashOnDelivery,
		"card_payments":    ps.CardPayments,
	})
	s.logger.Info("Payment settings updated", zap.String("vendor_id", vendorID.String()))
	resp := toResponse(ps, true)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, vendorID uuid.UUID) (*settings.PaymentSettings, bool, error) {
	ps, err := s.repo.FindByVendor(ctx, vendorID)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.DefaultPaymentSettings(vendorID), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return ps, true, nil
}
