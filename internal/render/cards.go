package render

import (
	"net/url"
	"strconv"
	"time"

	"github.com/emcasacomcecilia/vitrine/internal/catalog"
	"github.com/emcasacomcecilia/vitrine/internal/feed"
	"github.com/emcasacomcecilia/vitrine/internal/models"
)

const (
	pricesUnavailable = "Preços não disponíveis"
	priceUnavailable  = "Preço indisponível"
)

// PriceLink is one store button on a product card.
type PriceLink struct {
	Store  string
	Link   string
	Logo   string
	Text   string
	Lowest bool
}

// ProductCard is the view model of a catalog product.
type ProductCard struct {
	Name          string
	Slug          string
	Category      string
	CategoryLabel string
	Date          string
	Image         string
	Prices        []PriceLink
	// LowestAttr is the data-lowest-price value, "0" without a valid price.
	LowestAttr string
	LowestText string
	NoPrices   string
	YouTube    string
	Review     string
	ShareURL   string
	DetailURL  string
}

// NewProductCard derives the card of a product. baseURL prefixes the share link.
func NewProductCard(product models.Product, baseURL string) ProductCard {
	slug := catalog.Slug(product.Name)
	category := product.Category

	if category == "" {
		category = catalog.CategoryOther
	}

	card := ProductCard{
		Name:          product.Name,
		Slug:          slug,
		Category:      category,
		CategoryLabel: catalog.CategoryName(category),
		Date:          catalog.FormatDate(product.Date),
		Image:         catalog.SanitizeImagePath(product.Image),
		ShareURL:      baseURL + "/?" + url.Values{"produto": {slug}}.Encode(),
		DetailURL:     "/?" + url.Values{"produto": {slug}}.Encode(),
	}

	if product.Links.YouTube != "" {
		card.YouTube = catalog.SanitizeURL(product.Links.YouTube)
	}

	if product.Links.Review != "" {
		card.Review = catalog.SanitizeURL(product.Links.Review)
	}

	lowest := catalog.LowestPrice(product)
	lowestIndex := catalog.LowestIndex(product)

	card.LowestAttr = strconv.FormatFloat(lowest, 'f', -1, 64)

	if lowestIndex < 0 {
		card.NoPrices = pricesUnavailable
	} else {
		card.LowestText = catalog.FormatBRL(lowest)
	}

	for i, offer := range product.Prices {
		text := priceUnavailable
		if offer.Price.Valid() {
			text = catalog.FormatBRL(offer.Price.Float())
		}

		card.Prices = append(card.Prices, PriceLink{
			Store:  offer.Store,
			Link:   catalog.SanitizeURL(offer.Link),
			Logo:   offer.Logo,
			Text:   text,
			Lowest: i == lowestIndex,
		})
	}

	return card
}

// NewProductCards maps a product list.
func NewProductCards(products []models.Product, baseURL string) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, product := range products {
		cards = append(cards, NewProductCard(product, baseURL))
	}

	return cards
}

// PromoCard is the view model of a promotion, used by the feed cards and the popup.
type PromoCard struct {
	ID        string
	Coupon    bool
	Store     string
	Title     string
	Featured  bool
	TimeAgo   string
	HasCoupon bool
	CouponTag string
	Info      string
	Image     string
	Link      string
	DetailURL string

	PriceText    string
	OldPriceText string
	Discount     int
	Unavailable  bool

	CouponCode string
	// LowestEver marks the current price as the lowest recorded for the offer.
	LowestEver bool
	History    models.PriceStats
	MinText    string
	MaxText    string
}

// NewPromoCard derives the card of a promotion. stats may be zero when no history is known.
func NewPromoCard(promo models.Promotion, now time.Time, stats models.PriceStats) PromoCard {
	card := PromoCard{
		ID:         promo.ID,
		Coupon:     promo.IsCoupon(),
		Store:      promo.Store,
		Title:      promo.Title(),
		Featured:   promo.Featured,
		TimeAgo:    feed.TimeAgo(promo.Timestamp, now),
		HasCoupon:  promo.Coupon != "",
		CouponTag:  promo.Coupon,
		Info:       promo.Info,
		Image:      catalog.SanitizeImagePath(promo.Image),
		Link:       catalog.SanitizeURL(promo.Link),
		DetailURL:  "/promocoes/" + url.PathEscape(promo.ID),
		CouponCode: promo.CouponCode,
		History:    stats,
	}

	if card.Coupon {
		return card
	}

	if !promo.Price.Valid() {
		card.Unavailable = true
		card.PriceText = priceUnavailable

		return card
	}

	card.PriceText = catalog.FormatBRL(promo.Price.Float())

	if discount := feed.Discount(promo); discount > 0 {
		card.Discount = discount
		card.OldPriceText = catalog.FormatBRL(promo.OldPrice.Float())
	}

	if stats.Count > 1 {
		card.LowestEver = stats.IsLowest(promo.Price.Float())
		card.MinText = catalog.FormatBRL(stats.Min)
		card.MaxText = catalog.FormatBRL(stats.Max)
	}

	return card
}

// NewPromoCards maps a promotion list without price history.
func NewPromoCards(promos []models.Promotion, now time.Time) []PromoCard {
	cards := make([]PromoCard, 0, len(promos))
	for _, promo := range promos {
		cards = append(cards, NewPromoCard(promo, now, models.PriceStats{}))
	}

	return cards
}
