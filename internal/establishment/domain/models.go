// Package domain contains persistence models for hospitality establishments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Establishment is a hotel, camping or parking operator on the platform.
// CommissionRate and FixedFee describe the platform cut for overnight
// bookings; day parking carries its own independently configured rate.
type Establishment struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Slug string       `gorm:"type:text;not null;uniqueIndex"`
	Name string       `gorm:"type:text;not null"`

	CommissionRate           float64 `gorm:"not null;default:0"` // percent, 0-100
	FixedFee                 float64 `gorm:"not null;default:0"` // CHF per booking
	DayParkingCommissionRate float64 `gorm:"not null;default:5"` // percent

	DayParkingTariff float64 `gorm:"not null;default:0"` // CHF per day

	BillingCompanyName string `gorm:"type:text"`
	BillingAddress     string `gorm:"type:text"`
	BillingPostalCode  string `gorm:"type:text"`
	BillingCity        string `gorm:"type:text"`
	BillingCountry     string `gorm:"type:text;default:'CH'"`
	VATNumber          string `gorm:"type:text"`

	StripeAccountID string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Establishment) TableName() string { return "establishments" }

// BillingInfo is the invoice-header subset attached verbatim to reports.
type BillingInfo struct {
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	Country     string `json:"country"`
	VATNumber   string `json:"vatNumber,omitempty"`
}

// Billing collects the establishment's billing fields.
func (e Establishment) Billing() BillingInfo {
	return BillingInfo{
		CompanyName: e.BillingCompanyName,
		Address:     e.BillingAddress,
		PostalCode:  e.BillingPostalCode,
		City:        e.BillingCity,
		Country:     e.BillingCountry,
		VATNumber:   e.VATNumber,
	}
}
