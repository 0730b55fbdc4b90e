package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emcasacomcecilia/vitrine/internal/models"
)

var (
	// ErrMissingField is returned when a payload lacks a mandatory field.
	ErrMissingField = errors.New("missing required field")
	// ErrDuplicate is returned when an equivalent promotion is already published.
	ErrDuplicate = errors.New("promotion already published")
)

// Document is a promotions file kept as raw entries, so that fields this
// service does not know about survive a rewrite.
type Document struct {
	Promotions []json.RawMessage `json:"promocoes"`
}

// Prune removes the entries older than window. Entries that cannot be decoded
// or carry no timestamp are kept. It returns the number of removed entries.
func (d *Document) Prune(now time.Time, window time.Duration) int {
	kept := d.Promotions[:0]

	for _, raw := range d.Promotions {
		var promo models.Promotion
		if err := json.Unmarshal(raw, &promo); err == nil && Expired(promo, now, window) {
			continue
		}

		kept = append(kept, raw)
	}

	removed := len(d.Promotions) - len(kept)
	d.Promotions = kept

	return removed
}

// Payload is a promotion submitted for publishing.
type Payload struct {
	Product  string       `json:"produto"`
	Price    models.Price `json:"preco"`
	OldPrice models.Price `json:"precoAntigo"`
	Store    string       `json:"loja"`
	Link     string       `json:"link"`
	Image    string       `json:"imagem"`
	Info     string       `json:"info"`
	Coupon   string       `json:"cupom"`
	Featured bool         `json:"destaque"`
}

// Publish validates a payload, rejects near-duplicates (same product and store,
// price within one cent) and prepends the new promotion to the document.
func (d *Document) Publish(payload Payload, now time.Time) (models.Promotion, error) {
	switch {
	case strings.TrimSpace(payload.Product) == "":
		return models.Promotion{}, fmt.Errorf("%w: produto", ErrMissingField)
	case !payload.Price.Valid():
		return models.Promotion{}, fmt.Errorf("%w: preco", ErrMissingField)
	case strings.TrimSpace(payload.Store) == "":
		return models.Promotion{}, fmt.Errorf("%w: loja", ErrMissingField)
	case strings.TrimSpace(payload.Link) == "":
		return models.Promotion{}, fmt.Errorf("%w: link", ErrMissingField)
	}

	for _, raw := range d.Promotions {
		var existing models.Promotion
		if err := json.Unmarshal(raw, &existing); err != nil {
			continue
		}

		if existing.Product == strings.TrimSpace(payload.Product) &&
			existing.Store == payload.Store &&
			math.Abs(existing.Price.Float()-payload.Price.Float()) < 0.01 {
			return models.Promotion{}, fmt.Errorf("%w: %s (%s)", ErrDuplicate, existing.Product, existing.Store)
		}
	}

	promo := models.Promotion{
		ID:        NewID(),
		Type:      models.KindPromo,
		Store:     payload.Store,
		Timestamp: models.Timestamp{Time: now.UTC()},
		Link:      strings.TrimSpace(payload.Link),
		Product:   strings.TrimSpace(payload.Product),
		Price:     payload.Price,
		OldPrice:  payload.OldPrice,
		Coupon:    payload.Coupon,
		Info:      payload.Info,
		Image:     payload.Image,
		Featured:  payload.Featured,
	}

	raw, err := json.Marshal(promo)
	if err != nil {
		return models.Promotion{}, fmt.Errorf("failed to encode promotion: %w", err)
	}

	d.Promotions = append([]json.RawMessage{raw}, d.Promotions...)

	return promo, nil
}

// NewID returns a short, readable promotion id.
func NewID() string {
	return "promo-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
