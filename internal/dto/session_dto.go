package dto

import (
	"tillbook/internal/money"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// OnlineAmount is a declared per-method non-cash amount at open or close.
type OnlineAmount struct {
	Method string          `json:"method" validate:"required,oneof=card wallet transfer"`
	Amount decimal.Decimal `json:"amount" validate:"min=0"`
}

type OpenSessionRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
	// OpeningCashBalance splits the opening balance into cash vs online;
	// when set, cash + Σ online must reconcile with the total.
	OpeningCashBalance *decimal.Decimal    `json:"opening_cash_balance"`
	OpeningCounts      *money.Denomination `json:"opening_bills"`
	OpeningOnline      []OnlineAmount      `json:"opening_online_payments" validate:"omitempty,dive"`
	OverrideCode       string              `json:"override_code"`
	OverrideReason     *string             `json:"override_reason"`
}

type CloseSessionRequest struct {
	CountedClosingBalance decimal.Decimal     `json:"counted_closing_balance" validate:"min=0"`
	ClosingCounts         *money.Denomination `json:"closing_bills"`
	ClosingOnline         []OnlineAmount      `json:"closing_online_payments" validate:"omitempty,dive"`
	Notes                 *string             `json:"notes"`
}

type RecordPaymentRequest struct {
	Method    string          `json:"method"    validate:"required,oneof=cash card wallet transfer"`
	Amount    decimal.Decimal `json:"amount"    validate:"required,gt=0"`
	Cost      decimal.Decimal `json:"cost"      validate:"min=0"`
	Reference *string         `json:"reference" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessionResponse struct {
	ID             string          `json:"id"`
	RegisterID     string          `json:"register_id"`
	UserID         string          `json:"user_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`

	ExpectedClosing *decimal.Decimal `json:"expected_closing_balance"`
	CountedClosing  *decimal.Decimal `json:"counted_closing_balance"`
	Variance        *decimal.Decimal `json:"variance"`
	Case            *string          `json:"case"`

	Status         string  `json:"status"`
	Notes          *string `json:"notes"`
	OverrideReason *string `json:"override_reason"`
	OpenedAt       string  `json:"opened_at"`
	ClosedAt       *string `json:"closed_at"`
}
