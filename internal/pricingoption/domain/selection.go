package domain

import (
	"bytes"
	"encoding/json"
)

// SelectionKind tags the two on-disk shapes of a booking's recorded
// option choices.
type SelectionKind string

const (
	// SelectionLegacy maps optionID to a value id or list of value ids
	// and requires the live catalog to resolve prices. Kept as a
	// read-path shim for rows predating enriched snapshots.
	SelectionLegacy SelectionKind = "legacy"

	// SelectionEnriched is self-contained: each entry carries the name,
	// label and price captured when the booking was made.
	SelectionEnriched SelectionKind = "enriched"
)

// EnrichedItem is one snapshotted option choice.
type EnrichedItem struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Selection is the decoded tagged union. Legacy values are normalized to
// id lists so select/radio and checkbox share one resolution path.
type Selection struct {
	Kind     SelectionKind
	Enriched []EnrichedItem
	Legacy   map[string][]string
}

// IsEmpty reports whether the selection carries no choices at all.
func (s Selection) IsEmpty() bool {
	return len(s.Enriched) == 0 && len(s.Legacy) == 0
}

// DecodeSelection determines the stored shape once, at the storage
// boundary. Enriched decoding is attempted first; anything that does not
// match falls back to the legacy mapping. Empty or null input decodes to
// an empty legacy selection.
func DecodeSelection(raw []byte) (Selection, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Selection{Kind: SelectionLegacy, Legacy: map[string][]string{}}, nil
	}

	if trimmed[0] == '[' {
		items, ok := decodeEnriched(trimmed)
		if ok {
			return Selection{Kind: SelectionEnriched, Enriched: items}, nil
		}
	}

	var legacyRaw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &legacyRaw); err != nil {
		return Selection{}, err
	}

	legacy := make(map[string][]string, len(legacyRaw))
	for optionID, value := range legacyRaw {
		ids, ok := decodeLegacyValue(value)
		if !ok {
			// Unrecognized entry shapes contribute nothing, matching the
			// engine's tolerance for unknown ids.
			continue
		}
		legacy[optionID] = ids
	}
	return Selection{Kind: SelectionLegacy, Legacy: legacy}, nil
}

func decodeEnriched(raw []byte) ([]EnrichedItem, bool) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}

	items := make([]EnrichedItem, 0, len(entries))
	for _, entry := range entries {
		nameRaw, hasName := entry["name"]
		if !hasName {
			return nil, false
		}
		var item EnrichedItem
		if err := json.Unmarshal(nameRaw, &item.Name); err != nil {
			return nil, false
		}
		if labelRaw, ok := entry["label"]; ok {
			if err := json.Unmarshal(labelRaw, &item.Label); err != nil {
				return nil, false
			}
		}
		if priceRaw, ok := entry["price"]; ok {
			if err := json.Unmarshal(priceRaw, &item.Price); err != nil {
				return nil, false
			}
		}
		items = append(items, item)
	}
	return items, true
}

func decodeLegacyValue(raw json.RawMessage) ([]string, bool) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, true
	}
	var multi []string
	if err := json.Unmarshal(raw, &multi); err == nil {
		return multi, true
	}
	return nil, false
}

// BuildEnriched resolves a legacy-shaped client selection against the
// live catalog into the snapshot stored on new bookings. Unknown ids are
// skipped, matching the engine's tolerance.
func BuildEnriched(selected map[string][]string, catalog []CatalogOption) []EnrichedItem {
	items := make([]EnrichedItem, 0, len(selected))
	for _, option := range catalog {
		valueIDs, ok := selected[option.ID]
		if !ok {
			continue
		}
		for _, valueID := range valueIDs {
			for _, value := range option.Values {
				if value.ID == valueID {
					items = append(items, EnrichedItem{
						Name:  option.Name,
						Label: value.Label,
						Price: value.PriceModifier,
					})
				}
			}
		}
	}
	return items
}

// MarshalEnriched serializes the snapshot for the booking row.
func MarshalEnriched(items []EnrichedItem) ([]byte, error) {
	if items == nil {
		items = []EnrichedItem{}
	}
	return json.Marshal(items)
}
