package settings

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// PayoutSchedule is how often a vendor is paid out
type PayoutSchedule string

const (
	PayoutWeekly   PayoutSchedule = "weekly"
	PayoutBiweekly PayoutSchedule = "biweekly"
	PayoutMonthly  PayoutSchedule = "monthly"
)

// IsValid checks if the schedule is known
func (s PayoutSchedule) IsValid() bool {
	switch s {
	case PayoutWeekly, PayoutBiweekly, PayoutMonthly:
		return true
	}
	return false
}

var ibanPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)

// PaymentSettings holds the payout and checkout options of one vendor
type PaymentSettings struct {
	shared.BaseEntity
	VendorID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	BankName       string         `gorm:"type:varchar(100)"`
	AccountHolder  string         `gorm:"type:varchar(100)"`
	IBAN           string         `gorm:"column:iban;type:varchar(34)"`
	PayoutSchedule PayoutSchedule `gorm:"type:varchar(20);not null;default:'monthly'"`
	CashOnDelivery bool           `gorm:"not null;default:false"`
	CardPayments   bool           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentSettings) TableName() string {
	return "payment_settings"
}

// DefaultPaymentSettings returns the settings a vendor starts with
func DefaultPaymentSettings(vendorID uuid.UUID) *PaymentSettings {
	return &PaymentSettings{
		BaseEntity:     shared.NewBaseEntity(),
		VendorID:       vendorID,
		PayoutSchedule: PayoutMonthly,
		CardPayments:   true,
	}
}

// Update replaces the editable fields. The IBAN is stored without spaces in upper case.
func (s *PaymentSettings) Update(bankName, accountHolder, iban string, schedule PayoutSchedule, cashOnDelivery, cardPayments bool) error {
	if !schedule.IsValid() {
		return shared.NewDomainError("INVALID_SCHEDULE", "Payout schedule must be weekly, biweekly or monthly")
	}
	iban = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(iban), " ", ""))
	if iban != "" && !ibanPattern.MatchString(iban) {
		return shared.NewDomainError("INVALID_IBAN", "IBAN format is invalid")
	}
	if !cashOnDelivery && !cardPayments {
		return shared.NewDomainError("INVALID_SETTINGS", "At least one payment method must be enabled")
	}
	s.BankName = strings.TrimSpace(bankName)
	s.AccountHolder = strings.TrimSpace(accountHolder)
	s.IBAN = iban
	s.PayoutSchedule = schedule
	s.CashOnDelivery = cashOnDelivery
	s.CardPayments = cardPayments
	s.Touch()
	return nil
}

// MaskedIBAN hides all but the last four characters
func (s *PaymentSettings) MaskedIBAN() string {
	if len(s.IBAN) <= 4 {
		return s.IBAN
	}
	return strings.Repeat("*", len(s.IBAN)-4) + s.IBAN[len(s.IBAN)-4:]
}
