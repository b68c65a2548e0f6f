// Package domain contains persistence models for guest bookings.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// BookingType distinguishes classic overnight stays from day parking.
type BookingType string

const (
	BookingTypeNight BookingType = "night"
	BookingTypeDay   BookingType = "day"
)

// Normalize maps the empty value of historical rows to the night type.
func (t BookingType) Normalize() BookingType {
	if t == "" {
		return BookingTypeNight
	}
	return t
}

// PaymentStatus mirrors the processor-side payment state.
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Booking is a reservation with its financial fields frozen at payment
// capture time. Amount is the authoritative tax-included total charged to
// the guest; reporting decomposes it but never rewrites it.
type Booking struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	Reference       string       `gorm:"type:text;not null;uniqueIndex"`
	EstablishmentID snowflake.ID `gorm:"not null;index"`
	RoomID          *snowflake.ID

	ClientName  string `gorm:"type:text;not null"`
	ClientEmail string `gorm:"type:text;not null"`

	BookingType BookingType `gorm:"type:text;not null;default:'night'"`
	BookingDate time.Time   `gorm:"not null;index"`
	Duration    int         `gorm:"not null;default:1"`

	RoomPrice           float64 `gorm:"not null;default:0"`
	PricingOptionsTotal float64 `gorm:"not null;default:0"`
	TouristTaxTotal     float64 `gorm:"not null;default:0"`
	Amount              float64 `gorm:"not null;default:0"`

	// Enriched selection snapshot written at creation time; legacy
	// id-mapping shape still occurs on rows predating the snapshotting.
	SelectedPricingOptions datatypes.JSON `gorm:"type:jsonb"`

	PlatformCommission float64 `gorm:"not null;default:0"`
	OwnerAmount        float64 `gorm:"not null;default:0"`
	StripeFee          float64 `gorm:"not null;default:0"`

	PaymentStatus         PaymentStatus `gorm:"type:text;not null;default:'pending';index"`
	StripePaymentIntentID *string       `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Booking) TableName() string { return "bookings" }

// BaseRoomCost is the tax-included room total before options and tourist tax.
func (b Booking) BaseRoomCost() float64 {
	return b.RoomPrice * float64(b.Duration)
}

// Room is a bookable unit (room, pitch or parking spot).
type Room struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	EstablishmentID snowflake.ID `gorm:"not null;index"`
	Name            string       `gorm:"type:text;not null"`
	Price           float64      `gorm:"not null;default:0"`
	IsActive        bool         `gorm:"not null;default:true"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Room) TableName() string { return "rooms" }
