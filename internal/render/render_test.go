package render_test

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/emcasacomcecilia/vitrine/internal/models"
	"github.com/emcasacomcecilia/vitrine/internal/render"
	"github.com/emcasacomcecilia/vitrine/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func execute(t *testing.T, name string, data any) *goquery.Document {
	t.Helper()

	r, err := render.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Execute(&buf, name, data))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	return doc
}

func product(name string, prices ...models.StorePrice) models.Product {
	return models.Product{Name: name, Category: "cozinha", Date: "2025-04-01", Prices: prices}
}

func promo(id string, age time.Duration) models.Promotion {
	return models.Promotion{
		ID:        id,
		Type:      models.KindPromo,
		Store:     "Amazon",
		Product:   "Produto " + id,
		Price:     50,
		Timestamp: models.Timestamp{Time: now.Add(-age)},
		Link:      "https://example.com/" + id,
	}
}

func TestProductCard_LowestMarker(t *testing.T) {
	p := product("Air Fryer",
		models.StorePrice{Store: "X", Price: 10, Link: "https://x.com"},
		models.StorePrice{Store: "Y", Price: 5, Link: "https://y.com"},
		models.StorePrice{Store: "Z", Price: 5, Link: "https://z.com"},
		models.StorePrice{Store: "W", Price: 0, Link: "javascript:alert(1)"},
	)

	doc := execute(t, "product_card", render.NewProductCard(p, "https://vitrine.example"))

	card := doc.Find("article.product-card")
	assert.Equal(t, "5", card.AttrOr("data-lowest-price", ""))
	assert.Equal(t, 4, doc.Find("a.price-link").Length())

	lowest := doc.Find("a.lowest-price")
	require.Equal(t, 1, lowest.Length())
	assert.Equal(t, "Y", lowest.AttrOr("data-store", ""))

	assert.Equal(t, "#", doc.Find(`a[data-store="W"]`).AttrOr("href", ""))
	assert.Contains(t, doc.Find(`a[data-store="W"]`).Text(), "Preço indisponível")
	assert.Equal(t, "https://vitrine.example/?produto=air-fryer", doc.Find(".copy-link").AttrOr("data-copy", ""))
	assert.Equal(t, "Cozinha", doc.Find(".category-tag").Text())
	assert.Equal(t, "01/04/2025", doc.Find(".product-date").Text())
	assert.Equal(t, 0, doc.Find(".no-prices").Length())
}

func TestProductCard_NoValidPrices(t *testing.T) {
	p := product("Sem preço",
		models.StorePrice{Store: "X", Price: 0},
		models.StorePrice{Store: "Y", Price: -1},
	)

	doc := execute(t, "product_card", render.NewProductCard(p, ""))

	assert.Equal(t, "0", doc.Find("article").AttrOr("data-lowest-price", ""))
	assert.Equal(t, "Preços não disponíveis", doc.Find(".no-prices").Text())
	assert.Equal(t, 0, doc.Find(".lowest-price").Length())
}

func TestProductCard_FallbackImage(t *testing.T) {
	card := render.NewProductCard(models.Product{Name: "x"}, "")

	assert.Equal(t, "./images/fallback.png", card.Image)
	assert.Equal(t, "outros", card.Category)
	assert.Equal(t, "Data não disponível", card.Date)
}

func TestPromoCard(t *testing.T) {
	testCases := []struct {
		name   string
		promo  models.Promotion
		assert func(t *testing.T, doc *goquery.Document)
	}{
		{
			name: "discount and featured",
			promo: models.Promotion{
				ID: "p1", Type: models.KindPromo, Store: "Amazon", Product: "Fone",
				Price: 50, OldPrice: 100, Featured: true, Coupon: "FONE10",
				Timestamp: models.Timestamp{Time: now.Add(-2 * time.Hour)},
			},
			assert: func(t *testing.T, doc *goquery.Document) {
				assert.Equal(t, "-50%", doc.Find(".discount-badge").Text())
				assert.Contains(t, doc.Find(".promo-title").Text(), "🔥")
				assert.Equal(t, "Com cupom", doc.Find(".coupon-badge").Text())
				assert.Equal(t, "2h", doc.Find(".promo-time").Text())
				assert.Equal(t, "R$ 100,00", doc.Find(".old-price").Text())
				assert.Equal(t, "/promocoes/p1", doc.Find(".promo-open").AttrOr("data-popup", ""))
			},
		},
		{
			name:  "no discount",
			promo: models.Promotion{ID: "p2", Type: models.KindPromo, Product: "Fone", Price: 50, OldPrice: 40},
			assert: func(t *testing.T, doc *goquery.Document) {
				assert.Equal(t, 0, doc.Find(".discount-badge").Length())
				assert.Equal(t, 0, doc.Find(".old-price").Length())
				assert.Equal(t, "R$ 50,00", doc.Find(".current-price").Text())
			},
		},
		{
			name:  "price unavailable",
			promo: models.Promotion{ID: "p3", Type: models.KindPromo, Product: "Fone"},
			assert: func(t *testing.T, doc *goquery.Document) {
				assert.Equal(t, "Preço indisponível", doc.Find(".price-unavailable").Text())
				assert.Equal(t, 0, doc.Find(".current-price").Length())
			},
		},
		{
			name:  "coupon",
			promo: models.Promotion{ID: "c1", Type: models.KindCoupon, Store: "Shopee", CouponDescription: "10% off"},
			assert: func(t *testing.T, doc *goquery.Document) {
				assert.Equal(t, "10% off", doc.Find(".coupon-description").Text())
				assert.Equal(t, "Ver Cupom", doc.Find(".promo-open").Text())
				assert.Equal(t, 0, doc.Find(".promo-prices").Length())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := execute(t, "promo_card", render.NewPromoCard(tc.promo, now, models.PriceStats{}))
			tc.assert(t, doc)
		})
	}
}

func TestPromoPopup(t *testing.T) {
	p := models.Promotion{
		ID: "p1", Type: models.KindPromo, Store: "Amazon", Product: "Fone",
		Price: 80, OldPrice: 100, CouponCode: "FONE10", Info: "Frete grátis", Link: "https://amazon.com/fone",
	}
	stats := models.PriceStats{Min: 80, Max: 120, Avg: 100, Count: 3}

	doc := execute(t, render.PromoPopupTemplate, render.NewPromoCard(p, now, stats))

	assert.Equal(t, "p1", doc.Find(".popup").AttrOr("data-id", ""))
	assert.Equal(t, "menor preço", doc.Find(".lowest-ever").Text())
	assert.Equal(t, "FONE10", doc.Find(".copy-code").AttrOr("data-copy", ""))
	assert.Equal(t, "Frete grátis", doc.Find(".popup-info").Text())
	assert.Equal(t, "https://amazon.com/fone", doc.Find(".popup-cta").AttrOr("href", ""))
	assert.Equal(t, "-20%", doc.Find(".discount-badge").Text())
}

func TestBuildIndex_Example(t *testing.T) {
	snap := state.Snapshot{Products: []models.Product{
		{Name: "A", Prices: models.StorePrices{{Store: "X", Price: 10}, {Store: "Y", Price: 5}}},
	}}
	st := state.FromQuery(url.Values{"q": {"a"}})

	page := render.BuildIndex(snap, st, render.Options{Now: now})

	require.Len(t, page.Products.Cards, 1)
	assert.Equal(t, "5", page.Products.Cards[0].LowestAttr)
	assert.True(t, page.Products.Cards[0].Prices[1].Lowest)
	assert.False(t, page.Products.Cards[0].Prices[0].Lowest)
	assert.Equal(t, "Nenhuma promoção no momento.", page.Promotions.Empty)
}

func TestBuildIndex_ExpiredNeverRendered(t *testing.T) {
	promos := []models.Promotion{
		promo("fresh", time.Hour),
		promo("old", 100*time.Hour),
	}
	promos[1].Product = "Produto fresh antigo"

	for _, query := range []url.Values{
		{},
		{"tipo": {"promo"}},
		{"busca": {"fresh"}},
		{"busca": {"antigo"}},
		{"promo": {"old"}},
	} {
		t.Run(query.Encode(), func(t *testing.T) {
			page := render.BuildIndex(state.Snapshot{Promotions: promos}, state.FromQuery(query), render.Options{Now: now})

			for _, card := range page.Promotions.Cards {
				assert.NotEqual(t, "old", card.ID)
			}

			assert.Nil(t, page.PromoPopup)
		})
	}
}

func TestBuildPromoPage_Pagination(t *testing.T) {
	promos := make([]models.Promotion, 0, 5)
	for i := range 5 {
		promos = append(promos, promo(fmt.Sprintf("p%d", i), time.Duration(i)*time.Minute))
	}

	opts := render.Options{Now: now, PageSize: 2}
	snap := state.Snapshot{Promotions: promos}

	first := render.BuildPromoPage(snap, state.FromQuery(url.Values{}), opts)
	require.Len(t, first.Cards, 2)
	assert.Equal(t, "p0", first.Cards[0].ID)
	assert.True(t, first.HasMore)
	assert.Equal(t, "/promocoes/pagina?offset=2", first.NextURL)

	second := render.BuildPromoPage(snap, state.FromQuery(url.Values{"offset": {"2"}}), opts)
	require.Len(t, second.Cards, 2)
	assert.Equal(t, "p2", second.Cards[0].ID)
	assert.Equal(t, "/promocoes/pagina?offset=4", second.NextURL)

	last := render.BuildPromoPage(snap, state.FromQuery(url.Values{"offset": {"4"}}), opts)
	require.Len(t, last.Cards, 1)
	assert.False(t, last.HasMore)
	assert.Empty(t, last.Empty)

	doc := execute(t, render.PromoPageTemplate, first)
	assert.Equal(t, 2, doc.Find(".promo-card").Length())
	assert.Equal(t, "/promocoes/pagina?offset=2", doc.Find(".sentinel").AttrOr("data-next", ""))

	doc = execute(t, render.PromoPageTemplate, last)
	assert.Equal(t, 0, doc.Find(".sentinel").Length())
}

func TestBuildPromoPage_EmptyStates(t *testing.T) {
	fresh := []models.Promotion{promo("p1", time.Hour)}

	testCases := []struct {
		name     string
		snap     state.Snapshot
		query    url.Values
		expected string
	}{
		{name: "empty feed", expected: "Nenhuma promoção no momento."},
		{name: "expired only", snap: state.Snapshot{Promotions: []models.Promotion{promo("old", 100*time.Hour)}}, expected: "Nenhuma promoção no momento."},
		{name: "search without match", snap: state.Snapshot{Promotions: fresh}, query: url.Values{"busca": {"geladeira"}}, expected: "Nenhuma promoção encontrada."},
		{name: "blank search", snap: state.Snapshot{Promotions: fresh}, query: url.Values{"busca": {"  "}, "tipo": {"cupom"}}, expected: "Nenhuma promoção no momento."},
		{name: "load failed", snap: state.Snapshot{PromotionsErr: errors.New("status 503")}, query: url.Values{"busca": {"fone"}}, expected: "Erro ao carregar promoções."},
		{name: "load failed with stale data", snap: state.Snapshot{Promotions: fresh, PromotionsErr: errors.New("status 503")}, query: url.Values{"busca": {"geladeira"}}, expected: "Nenhuma promoção encontrada."},
		{name: "results", snap: state.Snapshot{Promotions: fresh}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page := render.BuildPromoPage(tc.snap, state.FromQuery(tc.query), render.Options{Now: now})

			assert.Equal(t, tc.expected, page.Empty)
		})
	}
}

func TestIndexTemplate(t *testing.T) {
	snap := state.Snapshot{
		Products: []models.Product{
			product("Air Fryer", models.StorePrice{Store: "X", Price: 300}),
			{Name: "Lâmpada", Category: "casa-inteligente"},
		},
		Promotions: []models.Promotion{promo("p1", time.Hour)},
	}
	st := state.FromQuery(url.Values{"produto": {"air-fryer"}, "categoria": {"cozinha"}})

	doc := execute(t, render.IndexTemplate, render.BuildIndex(snap, st, render.Options{Now: now}))

	assert.Equal(t, 3, doc.Find(".category-link").Length())
	assert.Equal(t, "Cozinha", doc.Find(".category-link.active").Text())
	assert.Equal(t, 1, doc.Find(".product-list .product-card").Length())
	assert.Equal(t, `Encontrados: 1 produto na categoria "Cozinha"`, doc.Find(".results-summary").Text())
	assert.Equal(t, 1, doc.Find(".promo-list .promo-card").Length())
	assert.Equal(t, "air-fryer", doc.Find(".popup").AttrOr("data-id", ""))
	assert.Equal(t, 1, doc.Find(".popup-overlay").Length())
}
