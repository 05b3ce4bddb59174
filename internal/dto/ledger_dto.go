package dto

import "github.com/shopspring/decimal"

// ─── Ledger feed ─────────────────────────────────────────────────────────────

// LedgerEntryResponse is one event in the flat chronological feed.
// Kind: "opening" | "closing". The counted/expected/variance/case fields are
// only present on closing entries.
type LedgerEntryResponse struct {
	Kind      string  `json:"kind"`
	SessionID *string `json:"session_id"`
	User      string  `json:"user"`

	Amount   decimal.Decimal  `json:"amount"`
	Counted  *decimal.Decimal `json:"counted"`
	Expected *decimal.Decimal `json:"expected"`
	Variance *decimal.Decimal `json:"variance"`
	Case     *string          `json:"case"`

	OccurredAt string `json:"occurred_at"`
}

// SessionGroupResponse pairs a session's opening with its closing (if any).
type SessionGroupResponse struct {
	SessionID *string              `json:"session_id"`
	Opening   LedgerEntryResponse  `json:"opening"`
	Closing   *LedgerEntryResponse `json:"closing"`
}

type GroupedLedgerResponse struct {
	Groups []SessionGroupResponse `json:"groups"`
	Total  int                    `json:"total"`
	Page   int                    `json:"page"`
	Size   int                    `json:"size"`
}

// ─── Breakdown ───────────────────────────────────────────────────────────────

// TenderSplit divides a balance into its cash and online portions.
type TenderSplit struct {
	Cash   decimal.Decimal `json:"cash"`
	Online decimal.Decimal `json:"online"`
	Total  decimal.Decimal `json:"total"`
}

// BreakdownResponse is the read-only per-session reconciliation aggregate.
type BreakdownResponse struct {
	SessionID string `json:"session_id"`

	OpeningCountTotal decimal.Decimal  `json:"opening_count_total"`
	ClosingCountTotal *decimal.Decimal `json:"closing_count_total"`

	Opening TenderSplit  `json:"opening"`
	Closing *TenderSplit `json:"closing"`

	GrossSales  decimal.Decimal `json:"gross_sales"`
	CostOfGoods decimal.Decimal `json:"cost_of_goods"`
	NetProfit   decimal.Decimal `json:"net_profit"`
}
