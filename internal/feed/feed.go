// Package feed holds the pure transformations of the promotions feed:
// recency window, type filter, unified search, ordering and derived display fields.
package feed

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/emcasacomcecilia/vitrine/internal/catalog"
	"github.com/emcasacomcecilia/vitrine/internal/models"
)

// DefaultWindow is how long a promotion stays visible after it was published.
const DefaultWindow = 72 * time.Hour

// Kind filters.
const (
	KindAll = "todos"
)

// Recent drops the promotions older than window. Promotions without a known
// timestamp are kept.
func Recent(promos []models.Promotion, now time.Time, window time.Duration) []models.Promotion {
	recent := make([]models.Promotion, 0, len(promos))

	for _, promo := range promos {
		if Expired(promo, now, window) {
			continue
		}

		recent = append(recent, promo)
	}

	return recent
}

// Expired reports whether a promotion is older than the recency window.
func Expired(promo models.Promotion, now time.Time, window time.Duration) bool {
	return !promo.Timestamp.IsZero() && now.Sub(promo.Timestamp.Time) > window
}

// Filter narrows promotions by kind ("todos", "promo", "cupom") and by a term matched,
// ignoring case, against product, store, coupon, info and coupon description and code.
func Filter(promos []models.Promotion, kind, term string) []models.Promotion {
	term = strings.TrimSpace(term)
	filtered := make([]models.Promotion, 0, len(promos))

	for _, promo := range promos {
		if matchesKind(promo, kind) && matchesTerm(promo, term) {
			filtered = append(filtered, promo)
		}
	}

	return filtered
}

// SortNewest orders promotions by timestamp, newest first. Equal timestamps keep their order.
func SortNewest(promos []models.Promotion) []models.Promotion {
	sorted := slices.Clone(promos)
	slices.SortStableFunc(sorted, func(a, b models.Promotion) int {
		return b.Timestamp.Compare(a.Timestamp.Time)
	})

	return sorted
}

// Visible is the list the page shows: recent promotions, filtered and newest first.
func Visible(promos []models.Promotion, now time.Time, window time.Duration, kind, term string) []models.Promotion {
	return Filter(SortNewest(Recent(promos, now, window)), kind, term)
}

// Find returns the promotion with the given id.
func Find(promos []models.Promotion, id string) (models.Promotion, bool) {
	for _, promo := range promos {
		if promo.ID == id {
			return promo, true
		}
	}

	return models.Promotion{}, false
}

// Discount is the rounded percentage off the old price, or 0 without a valid old price.
func Discount(promo models.Promotion) int {
	if !promo.Price.Valid() || promo.OldPrice <= promo.Price {
		return 0
	}

	return int(math.Round((1 - promo.Price.Float()/promo.OldPrice.Float()) * 100))
}

// TimeAgo is the compact elapsed time shown on cards ("Agora", "5 min", "3h", "2 dias").
func TimeAgo(ts models.Timestamp, now time.Time) string {
	if ts.IsZero() {
		return ""
	}

	minutes := int(now.Sub(ts.Time) / time.Minute)
	hours := minutes / 60

	switch {
	case minutes < 1:
		return "Agora"
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%d dias", hours/24)
	}
}

func matchesKind(promo models.Promotion, kind string) bool {
	switch kind {
	case models.KindPromo:
		return !promo.IsCoupon()
	case models.KindCoupon:
		return promo.IsCoupon()
	default:
		return true
	}
}

func matchesTerm(promo models.Promotion, term string) bool {
	if term == "" {
		return true
	}

	fields := []string{
		promo.Product,
		promo.Store,
		promo.Coupon,
		promo.Info,
		promo.CouponDescription,
		promo.CouponCode,
	}

	return catalog.Contains(strings.Join(fields, " "), term)
}
