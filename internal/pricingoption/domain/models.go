// Package domain contains the pricing option catalog and the selection
// formats recorded on bookings.
package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// OptionType controls the selection semantics of an option.
type OptionType string

const (
	OptionTypeSelect   OptionType = "select"
	OptionTypeRadio    OptionType = "radio"
	OptionTypeCheckbox OptionType = "checkbox"
)

// PricingOption is a catalog entry offered during reservation (breakfast,
// late checkout, pets...). Historical bookings must not depend on the live
// catalog, hence the enriched selection snapshot on Booking.
type PricingOption struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	EstablishmentID snowflake.ID `gorm:"not null;index"`
	Name            string       `gorm:"type:text;not null"`
	Type            OptionType   `gorm:"type:text;not null;default:'select'"`
	IsRequired      bool         `gorm:"not null;default:false"`

	// JSON array of Value.
	Values datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`

	DisplayOrder int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PricingOption) TableName() string { return "pricing_options" }

// Value is one selectable value of an option. PriceModifier is signed:
// discounts are negative.
type Value struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	PriceModifier float64 `json:"priceModifier"`
	IsDefault     bool    `json:"isDefault,omitempty"`
}

// DecodeValues unmarshals the stored value list.
func (o *PricingOption) DecodeValues() ([]Value, error) {
	if len(o.Values) == 0 {
		return nil, nil
	}
	var values []Value
	if err := json.Unmarshal(o.Values, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// CatalogOption is the decoded, lookup-ready form of a PricingOption.
type CatalogOption struct {
	ID     string
	Name   string
	Type   OptionType
	Values []Value
}

// Catalog decodes the option into its lookup-ready form. Rows with a
// corrupt value list become an option with no values rather than an error;
// the engine treats unknown value ids as zero-cost anyway.
func (o *PricingOption) Catalog() CatalogOption {
	values, err := o.DecodeValues()
	if err != nil {
		values = nil
	}
	return CatalogOption{
		ID:     o.ID.String(),
		Name:   o.Name,
		Type:   o.Type,
		Values: values,
	}
}

// CatalogFromModels decodes a list of stored options.
func CatalogFromModels(options []PricingOption) []CatalogOption {
	catalog := make([]CatalogOption, 0, len(options))
	for i := range options {
		catalog = append(catalog, options[i].Catalog())
	}
	return catalog
}

var (
	ErrNotFound       = errors.New("pricing_option_not_found")
	ErrInvalidType    = errors.New("invalid_pricing_option_type")
	ErrInvalidName    = errors.New("invalid_pricing_option_name")
	ErrInvalidValues  = errors.New("invalid_pricing_option_values")
	ErrInvalidRequest = errors.New("invalid_pricing_option_request")
)
