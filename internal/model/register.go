package model

import (
	"time"

	"github.com/google/uuid"
)

// CashRegister is a physical till. At most one of its sessions may be open
// at any time — enforced at the service layer by FindOpenByRegister before
// every open.
type CashRegister struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID int       `gorm:"not null;index"`
	Name     string    `gorm:"not null"`
	// SecretCode authorizes sensitive actions, in particular opening the
	// register on behalf of a different assigned user.
	SecretCode string `gorm:"not null"`
	// AssignedUserID restricts the register to one cashier; nil = anyone.
	AssignedUserID *uuid.UUID `gorm:"type:uuid"`
	Active         bool       `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Sessions []CashRegisterSession `gorm:"foreignKey:RegisterID"`
}
