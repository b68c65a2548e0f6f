// Package engine resolves recorded option selections into money amounts
// and display lines. All functions are pure and tolerant: ids that no
// longer exist in the catalog contribute zero, never an error, since
// reporting over historical bookings must survive catalog edits.
package engine

import (
	"fmt"

	"github.com/alpenstay/alpenstay/internal/pricingoption/domain"
)

// OptionDetail is one display line consumed by invoices and reports.
type OptionDetail struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CalculateTotal sums the price modifiers of a legacy selection against
// the catalog. Single-id entries carry select/radio semantics, multi-id
// entries checkbox semantics; after normalization both reduce to summing
// every matched value id.
func CalculateTotal(selected map[string][]string, catalog []domain.CatalogOption) float64 {
	if len(selected) == 0 || len(catalog) == 0 {
		return 0
	}

	total := 0.0
	for optionID, valueIDs := range selected {
		option, ok := lookupOption(catalog, optionID)
		if !ok {
			continue
		}
		for _, valueID := range valueIDs {
			if value, ok := lookupValue(option.Values, valueID); ok {
				total += value.PriceModifier
			}
		}
	}
	return total
}

// SelectionTotal prices a decoded selection. Enriched snapshots are
// summed directly; legacy selections go through the catalog.
func SelectionTotal(sel domain.Selection, catalog []domain.CatalogOption) float64 {
	if sel.Kind == domain.SelectionEnriched {
		total := 0.0
		for _, item := range sel.Enriched {
			total += item.Price
		}
		return total
	}
	return CalculateTotal(sel.Legacy, catalog)
}

// FormatEnrichedForDisplay converts snapshot entries into display lines,
// dropping zero-priced entries. No catalog lookups happen here: enriched
// records are already resolved.
func FormatEnrichedForDisplay(items []domain.EnrichedItem) []OptionDetail {
	details := make([]OptionDetail, 0, len(items))
	for _, item := range items {
		if item.Price == 0 {
			continue
		}
		details = append(details, OptionDetail{
			Name:  displayName(item.Name, item.Label),
			Price: item.Price,
		})
	}
	return details
}

// Details builds display lines for any selection shape. The enriched
// snapshot wins when present; legacy selections are resolved against the
// catalog and follow the same zero-price filter.
func Details(sel domain.Selection, catalog []domain.CatalogOption) []OptionDetail {
	if sel.Kind == domain.SelectionEnriched {
		return FormatEnrichedForDisplay(sel.Enriched)
	}

	details := make([]OptionDetail, 0, len(sel.Legacy))
	for _, option := range catalog {
		valueIDs, ok := sel.Legacy[option.ID]
		if !ok {
			continue
		}
		for _, valueID := range valueIDs {
			value, ok := lookupValue(option.Values, valueID)
			if !ok || value.PriceModifier == 0 {
				continue
			}
			details = append(details, OptionDetail{
				Name:  displayName(option.Name, value.Label),
				Price: value.PriceModifier,
			})
		}
	}
	return details
}

func displayName(name, label string) string {
	if label == "" {
		return name
	}
	return fmt.Sprintf("%s: %s", name, label)
}

func lookupOption(catalog []domain.CatalogOption, id string) (domain.CatalogOption, bool) {
	for _, option := range catalog {
		if option.ID == id {
			return option, true
		}
	}
	return domain.CatalogOption{}, false
}

func lookupValue(values []domain.Value, id string) (domain.Value, bool) {
	for _, value := range values {
		if value.ID == id {
			return value, true
		}
	}
	return domain.Value{}, false
}
