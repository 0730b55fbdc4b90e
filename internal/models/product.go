package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Product is a catalog entry whose price is compared across stores.
type Product struct {
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Image    string      `json:"image"`
	Prices   StorePrices `json:"prices"`
	Links    Links       `json:"links"`
}

// StorePrice is the offer of one store for a product.
type StorePrice struct {
	Store string `json:"-"`
	Price Price  `json:"price"`
	Link  string `json:"link"`
	Logo  string `json:"logo"`
}

// Links holds the optional video and review links of a product.
type Links struct {
	YouTube string `json:"youtube,omitempty"`
	Review  string `json:"review,omitempty"`
}

// StorePrices keeps the store offers in the order they appear in the document.
// It is decoded from and encoded to a JSON object keyed by store name.
type StorePrices []StorePrice

// UnmarshalJSON decodes a {"store": {...}} object. Anything that is not an object
// (null, array, scalar) yields no prices instead of an error.
func (s *StorePrices) UnmarshalJSON(data []byte) error {
	*s = nil

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read prices: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read store name: %w", err)
		}

		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to read store offer: %w", err)
		}

		var offer StorePrice
		// Fields with the wrong type are left empty; the rest of the offer is kept.
		_ = json.Unmarshal(raw, &offer) //nolint:errcheck // partial decode is intended

		offer.Store, _ = keyTok.(string)
		*s = append(*s, offer)
	}

	return nil
}

// MarshalJSON encodes the offers back into an object, preserving order.
func (s StorePrices) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, offer := range s {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(offer.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to encode store name: %w", err)
		}

		val, err := json.Marshal(offer)
		if err != nil {
			return nil, fmt.Errorf("failed to encode offer of %s: %w", offer.Store, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
