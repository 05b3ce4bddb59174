// Package money provides fixed-point currency helpers for cash counting.
// All arithmetic runs on integer minor units (cents); decimal.Decimal is
// only produced at the boundary so sub-unit coins never accumulate
// floating-point error.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidDenomination = errors.New("denomination counts must be non-negative")

// Denomination is an itemized count of bills and coins in a drawer.
// Bill20 and Coin20 share a face value but are separate buckets and are
// always summed separately.
type Denomination struct {
	Bill1000 int `json:"bill_1000" gorm:"not null;default:0"`
	Bill500  int `json:"bill_500"  gorm:"not null;default:0"`
	Bill200  int `json:"bill_200"  gorm:"not null;default:0"`
	Bill100  int `json:"bill_100"  gorm:"not null;default:0"`
	Bill50   int `json:"bill_50"   gorm:"not null;default:0"`
	Bill20   int `json:"bill_20"   gorm:"not null;default:0"`
	Coin20   int `json:"coin_20"   gorm:"not null;default:0"`
	Coin10   int `json:"coin_10"   gorm:"not null;default:0"`
	Coin5    int `json:"coin_5"    gorm:"not null;default:0"`
	Coin1    int `json:"coin_1"    gorm:"not null;default:0"`
	Cent25   int `json:"cent_25"   gorm:"not null;default:0"`
	Cent10   int `json:"cent_10"   gorm:"not null;default:0"`
	Cent5    int `json:"cent_5"    gorm:"not null;default:0"`
	Cent1    int `json:"cent_1"    gorm:"not null;default:0"`
}

// face values in cents, in bucket order
var faceCents = [14]int64{
	100000, 50000, 20000, 10000, 5000, 2000, // bills
	2000, 1000, 500, 100, // whole-unit coins
	25, 10, 5, 1, // sub-unit coins
}

func (d Denomination) counts() [14]int {
	return [14]int{
		d.Bill1000, d.Bill500, d.Bill200, d.Bill100, d.Bill50, d.Bill20,
		d.Coin20, d.Coin10, d.Coin5, d.Coin1,
		d.Cent25, d.Cent10, d.Cent5, d.Cent1,
	}
}

// Total returns the exact value of the counted cash as a two-decimal amount.
// Any negative bucket count yields ErrInvalidDenomination.
func (d Denomination) Total() (decimal.Decimal, error) {
	cents, err := d.TotalCents()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(cents, -2), nil
}

// TotalCents is Total in integer minor units.
func (d Denomination) TotalCents() (int64, error) {
	var cents int64
	for i, count := range d.counts() {
		if count < 0 {
			return 0, ErrInvalidDenomination
		}
		cents += int64(count) * faceCents[i]
	}
	return cents, nil
}

// IsZero reports whether every bucket is empty.
func (d Denomination) IsZero() bool {
	for _, count := range d.counts() {
		if count != 0 {
			return false
		}
	}
	return true
}
