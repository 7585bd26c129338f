// internal/domain/exchanger.go
package domain

import (
	"strings"
	"time"
	"unicode"
)

// Exchanger is a money exchanger (saraf) profile. It owns customer accounts
// and a set of supported currencies.
type Exchanger struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	LicenseNo    string    `db:"license_no" json:"license_no"`
	ExchangeName *string   `db:"exchange_name" json:"exchange_name,omitempty"`
	Address      string    `db:"address" json:"address"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewExchanger creates an active profile. The password hash is set separately.
func NewExchanger(name, lastName, phone, email, licenseNo, address string) *Exchanger {
	now := time.Now().UTC()
	return &Exchanger{
		Name:      strings.TrimSpace(name),
		LastName:  strings.TrimSpace(lastName),
		Phone:     strings.TrimSpace(phone),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		LicenseNo: strings.TrimSpace(licenseNo),
		Address:   strings.TrimSpace(address),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// PasswordProblems lists the password rules p breaks; empty means acceptable.
func PasswordProblems(p string) []string {
	var problems []string
	if len(p) < 6 {
		problems = append(problems, "at least 6 characters")
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !upper {
		problems = append(problems, "an uppercase letter")
	}
	if !lower {
		problems = append(problems, "a lowercase letter")
	}
	if !digit {
		problems = append(problems, "a digit")
	}
	if !special {
		problems = append(problems, "a special character")
	}
	return problems
}
