package model

import (
	"time"

	"tillbook/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRegisterSession represents one usage period of a register.
// Status: "open" | "closed". Closing is terminal: expected/counted/variance
// and the case label become immutable once set.
type CashRegisterSession struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RegisterID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null"`

	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// OpeningCashBalance is the cash portion when the opening balance is
	// split into cash plus online tenders; equals OpeningBalance otherwise.
	OpeningCashBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Set on close: ExpectedClosing = OpeningBalance + SUM(payments).
	ExpectedClosing *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CountedClosing  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Variance        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Case: "SALE" | "NO_SALE" | "SHORTED"
	Case *string `gorm:"type:varchar(10)"`

	Status string `gorm:"type:varchar(10);not null;default:'open'"`
	Notes  *string

	// Override trail when the session was opened by someone other than the
	// register's assigned user.
	OverrideReason *string
	OverriddenBy   *uuid.UUID `gorm:"type:uuid"`

	OpeningCounts money.Denomination `gorm:"embedded;embeddedPrefix:opening_"`
	ClosingCounts money.Denomination `gorm:"embedded;embeddedPrefix:closing_"`

	OpenedAt time.Time
	ClosedAt *time.Time

	Payments []SessionPayment `gorm:"foreignKey:SessionID"`
	Tenders  []SessionTender  `gorm:"foreignKey:SessionID"`
}

// SessionPayment is an immutable sale event recorded against an open
// session. Payments are NEVER modified or deleted — corrections create
// inverse entries.
// Method: "cash" | "card" | "wallet" | "transfer"
type SessionPayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Method    string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Cost is the cost-of-goods component, kept for the breakdown report.
	Cost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Reference links to the originating sale in the upstream system.
	Reference *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}

// SessionTender records a declared per-method online amount at open or
// close. Phase: "opening" | "closing".
type SessionTender struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Phase     string          `gorm:"type:varchar(10);not null"`
	Method    string          `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}
