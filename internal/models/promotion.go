package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Promotion kinds.
const (
	KindPromo  = "promo"
	KindCoupon = "cupom"
)

// Promotion is one entry of the live promotions feed: either a product offer or a store coupon.
type Promotion struct {
	ID        string    `json:"id,omitempty"`
	Type      string    `json:"tipo"`
	Store     string    `json:"loja"`
	Timestamp Timestamp `json:"timestamp"`
	Link      string    `json:"link"`

	// Offer fields.
	Product  string `json:"produto,omitempty"`
	Price    Price  `json:"preco,omitempty"`
	OldPrice Price  `json:"precoAntigo,omitempty"`
	Coupon   string `json:"cupom,omitempty"`
	Info     string `json:"info,omitempty"`
	Image    string `json:"imagem,omitempty"`
	Featured bool   `json:"destaque,omitempty"`

	// Coupon fields.
	CouponDescription string `json:"descricaoCupom,omitempty"`
	CouponCode        string `json:"codigoCupom,omitempty"`
}

// Feed is the promotions document.
type Feed struct {
	Promotions []Promotion `json:"promocoes"`
}

// IsCoupon reports whether the promotion is a store coupon. Any other kind is an offer.
func (p Promotion) IsCoupon() bool {
	return p.Type == KindCoupon
}

// Title is the display title: the product for offers, the description for coupons.
func (p Promotion) Title() string {
	if p.IsCoupon() {
		return p.CouponDescription
	}

	return p.Product
}

// HistoryKey identifies the same offer across feed refreshes for price history.
func (p Promotion) HistoryKey() string {
	return strings.ToLower(strings.TrimSpace(p.Store)) + "|" + strings.ToLower(strings.TrimSpace(p.Product))
}

// WithID returns the promotion with a stable identifier. Entries that carry an id keep it;
// the others get "promo-" followed by a short content hash, so the id survives refreshes.
func (p Promotion) WithID() Promotion {
	if p.ID != "" {
		return p
	}

	sum := sha256.Sum256([]byte(strings.Join([]string{
		p.Type,
		p.Store,
		p.Product,
		p.CouponCode,
		p.Link,
		p.Timestamp.UTC().String(),
	}, "\x00")))

	p.ID = "promo-" + hex.EncodeToString(sum[:4])

	return p
}
