// Package validate provides input validation for user-entered values.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "tradeview/internal/errors"
)

var (
	// Symbol pattern: uppercase letters, numbers, and limited special chars.
	symbolPattern = regexp.MustCompile(`^[A-Z0-9&-]{1,20}$`)

	// PIN pattern: exactly four digits.
	pinPattern = regexp.MustCompile(`^\d{4}$`)

	// UPI ID pattern: local part, @, provider handle.
	upiPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{2,64}@[A-Za-z]{2,32}$`)
)

// Symbol validates a stock symbol.
func Symbol(symbol string) error {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if symbol == "" {
		return apperrors.NewValidationError("symbol", symbol, "symbol cannot be empty")
	}
	if !symbolPattern.MatchString(symbol) {
		return apperrors.NewValidationError("symbol", symbol, "invalid symbol format")
	}
	return nil
}

// PIN validates a security PIN.
func PIN(pin string) error {
	if !pinPattern.MatchString(pin) {
		return apperrors.NewValidationError("pin", "****", "PIN must be exactly 4 digits")
	}
	return nil
}

// UPIID validates a UPI payment address.
func UPIID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.NewValidationError("upi_id", id, "UPI ID cannot be empty")
	}
	if !upiPattern.MatchString(id) {
		return apperrors.NewValidationError("upi_id", id, "expected format name@provider")
	}
	return nil
}

// Quantity validates an order or holding quantity.
func Quantity(qty int) error {
	if qty <= 0 {
		return apperrors.NewValidationError("quantity", fmt.Sprintf("%d", qty), "quantity must be positive")
	}
	if qty > 10000000 {
		return apperrors.NewValidationError("quantity", fmt.Sprintf("%d", qty), "quantity exceeds maximum allowed")
	}
	return nil
}

// Price validates a price value.
func Price(price float64) error {
	if price < 0 {
		return apperrors.NewValidationError("price", fmt.Sprintf("%.2f", price), "price cannot be negative")
	}
	if price > 1000000000 {
		return apperrors.NewValidationError("price", fmt.Sprintf("%.2f", price), "price exceeds maximum allowed")
	}
	return nil
}

// Amount validates a funds amount.
func Amount(amount float64) error {
	if amount <= 0 {
		return apperrors.NewValidationError("amount", fmt.Sprintf("%.2f", amount), "amount must be positive")
	}
	if amount > 10000000 {
		return apperrors.NewValidationError("amount", fmt.Sprintf("%.2f", amount), "amount exceeds maximum allowed")
	}
	return nil
}

// SanitizeSymbol uppercases a symbol and strips everything outside the
// allowed character set.
func SanitizeSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	var b strings.Builder
	for _, r := range symbol {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '&' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskCredential masks a credential value for display and logging.
func MaskCredential(value string) string {
	switch {
	case len(value) == 0:
		return ""
	case len(value) <= 4:
		return strings.Repeat("*", len(value))
	case len(value) <= 8:
		return value[:2] + strings.Repeat("*", len(value)-2)
	default:
		return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
	}
}
