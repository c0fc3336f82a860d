// Package commission splits an order total between the platform and the vendor.
package commission

import (
	"github.com/rookgm/marketplace/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultPercentage is the platform cut when a vendor has no override
var DefaultPercentage = decimal.NewFromInt(2)

var hundred = decimal.NewFromInt(100)

// Calculate returns the platform commission rounded to two places and the vendor
// share. The vendor share is the remainder, so both always sum to total.
func Calculate(total, pct decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if total.IsNegative() {
		return decimal.Zero, decimal.Zero, models.ErrNegativeAmount
	}
	if err := ValidatePercentage(pct); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	commission := total.Mul(pct).Div(hundred).Round(2)
	return commission, total.Sub(commission), nil
}

// ValidatePercentage checks pct is within [0, 100]
func ValidatePercentage(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return models.ErrInvalidCommission
	}
	return nil
}
