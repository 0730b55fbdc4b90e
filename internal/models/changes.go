package models

import "time"

// Changes - comparison result between two feed snapshots.
type Changes struct {
	Added   []Promotion
	Removed []Promotion
}

// State - the feed snapshot stored in the database.
type State struct {
	FeedHash   string
	Promotions []Promotion
}

// PricePoint is one recorded price of an offer.
type PricePoint struct {
	Key   string
	Title string
	Value float64
	At    time.Time
}

// PriceStats summarizes the recorded prices of an offer.
type PriceStats struct {
	Min   float64
	Max   float64
	Avg   float64
	Count int
}

// IsLowest reports whether price is at or below every recorded price.
func (s PriceStats) IsLowest(price float64) bool {
	return s.Count > 0 && price > 0 && price <= s.Min
}

// Subscription - a Telegram chat that receives new promotions of one kind, or of every
// kind when Kind is empty.
type Subscription struct {
	ChatID int64
	Kind   string
	Since  time.Time
}

// Wants reports whether the subscriber asked for promotions like promo.
func (s Subscription) Wants(promo Promotion) bool {
	switch s.Kind {
	case KindPromo:
		return !promo.IsCoupon()
	case KindCoupon:
		return promo.IsCoupon()
	default:
		return true
	}
}
