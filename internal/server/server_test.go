package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/emcasacomcecilia/vitrine/internal/models"
	"github.com/emcasacomcecilia/vitrine/internal/render"
	"github.com/emcasacomcecilia/vitrine/internal/server"
	"github.com/emcasacomcecilia/vitrine/internal/state"
	"github.com/emcasacomcecilia/vitrine/test/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func fixtures() *state.Store {
	store := state.NewStore()

	store.SetProducts([]models.Product{
		{
			Name:     "Air Fryer",
			Category: "cozinha",
			Prices: models.StorePrices{
				{Store: "X", Price: 10, Link: "https://x.com"},
				{Store: "Y", Price: 5, Link: "https://y.com"},
			},
		},
		{Name: "Fone Bluetooth", Category: "eletronicos"},
	}, now)

	promos := []models.Promotion{
		{ID: "p1", Type: models.KindPromo, Store: "Amazon", Product: "Panela", Price: 80, OldPrice: 100,
			Timestamp: models.Timestamp{Time: now.Add(-time.Hour)}, Link: "https://amzn.to/p1"},
		{ID: "c1", Type: models.KindCoupon, Store: "Shopee", CouponDescription: "R$ 20 OFF", CouponCode: "SHOPEE20",
			Timestamp: models.Timestamp{Time: now.Add(-2 * time.Hour)}, Link: "https://shopee.com.br"},
		{ID: "old", Type: models.KindPromo, Store: "Magalu", Product: "Velho", Price: 10,
			Timestamp: models.Timestamp{Time: now.Add(-100 * time.Hour)}},
	}
	store.SetPromotions(promos, now)

	return store
}

func newServer(t *testing.T, history server.PriceHistory, cfg server.Config) *server.Server {
	t.Helper()

	renderer, err := render.New()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := server.New(logger, cfg, fixtures(), history, renderer)
	s.SetNow(func() time.Time { return now })

	return s
}

func get(t *testing.T, s *server.Server, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	return rec
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	return doc
}

func TestIndex(t *testing.T) {
	s := newServer(t, nil, server.Config{})

	testCases := []struct {
		name          string
		target        string
		expectedNames []string
		expectedPromo []string
	}{
		{
			name:          "everything",
			target:        "/",
			expectedNames: []string{"Air Fryer", "Fone Bluetooth"},
			expectedPromo: []string{"p1", "c1"},
		},
		{
			name:          "category and search",
			target:        "/?categoria=cozinha&q=air",
			expectedNames: []string{"Air Fryer"},
			expectedPromo: []string{"p1", "c1"},
		},
		{
			name:          "coupons only",
			target:        "/?tipo=cupom",
			expectedNames: []string{"Air Fryer", "Fone Bluetooth"},
			expectedPromo: []string{"c1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, s, tc.target)
			require.Equal(t, http.StatusOK, rec.Code)

			doc := document(t, rec)

			var names []string
			doc.Find(".product-list:not(.suggestions) .product-card h3").Each(func(_ int, sel *goquery.Selection) {
				names = append(names, sel.Text())
			})

			var ids []string
			doc.Find(".promo-list .promo-card").Each(func(_ int, sel *goquery.Selection) {
				ids = append(ids, sel.AttrOr("data-id", ""))
			})

			assert.Equal(t, tc.expectedNames, names)
			assert.Equal(t, tc.expectedPromo, ids)
		})
	}
}

func TestIndex_PromoPopupWithHistory(t *testing.T) {
	history := mocks.NewHistoryRepository(t)
	history.On("PriceStats", mock.Anything, "amazon|panela").
		Return(models.PriceStats{Min: 80, Max: 120, Avg: 100, Count: 3}, nil).Once()

	s := newServer(t, history, server.Config{})

	rec := get(t, s, "/?promo=p1")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := document(t, rec)
	assert.Equal(t, "p1", doc.Find(".popup").AttrOr("data-id", ""))
	assert.Equal(t, 1, doc.Find(".lowest-ever").Length())
}

func TestPromoPopup(t *testing.T) {
	history := mocks.NewHistoryRepository(t)
	history.On("PriceStats", mock.Anything, "amazon|panela").Return(models.PriceStats{}, assert.AnError).Once()

	s := newServer(t, history, server.Config{})

	testCases := []struct {
		name         string
		target       string
		expectedCode int
	}{
		{name: "visible offer", target: "/promocoes/p1", expectedCode: http.StatusOK},
		{name: "coupon skips history", target: "/promocoes/c1", expectedCode: http.StatusOK},
		{name: "expired", target: "/promocoes/old", expectedCode: http.StatusNotFound},
		{name: "unknown", target: "/promocoes/nope", expectedCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, s, tc.target)
			assert.Equal(t, tc.expectedCode, rec.Code)

			if tc.expectedCode == http.StatusOK {
				doc := document(t, rec)
				assert.Equal(t, 1, doc.Find(".popup-cta").Length())
				assert.Zero(t, doc.Find(".lowest-ever").Length())
			}
		})
	}
}

func TestPromoPage(t *testing.T) {
	s := newServer(t, nil, server.Config{PageSize: 1})

	rec := get(t, s, "/")
	doc := document(t, rec)
	next, ok := doc.Find(".promo-list .sentinel").Attr("data-next")
	require.True(t, ok)
	assert.Equal(t, render.PromoPageEndpoint+"?offset=1", next)

	rec = get(t, s, next)
	require.Equal(t, http.StatusOK, rec.Code)

	doc = document(t, rec)
	assert.Equal(t, "c1", doc.Find(".promo-card").AttrOr("data-id", ""))
	assert.Zero(t, doc.Find(".sentinel").Length())
}

func TestAPI(t *testing.T) {
	s := newServer(t, nil, server.Config{})

	t.Run("products", func(t *testing.T) {
		rec := get(t, s, "/api/produtos?categoria=eletronicos&q=air")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Products    []models.Product `json:"produtos"`
			Suggestions []models.Product `json:"sugestoes"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

		assert.Empty(t, body.Products)
		require.Len(t, body.Suggestions, 1)
		assert.Equal(t, "Air Fryer", body.Suggestions[0].Name)
	})

	t.Run("promotions", func(t *testing.T) {
		rec := get(t, s, "/api/promocoes?tipo=promo")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Promotions []models.Promotion `json:"promocoes"`
			Total      int                `json:"total"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

		assert.Equal(t, 1, body.Total)
		assert.Equal(t, "p1", body.Promotions[0].ID)
	})

	t.Run("health", func(t *testing.T) {
		rec := get(t, s, "/healthz")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","produtos":2,"promocoes":3}`, rec.Body.String())
	})
}

func TestStaticImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "fallback.png"), []byte("png"), 0o600))

	s := newServer(t, nil, server.Config{PublicDir: dir})

	rec := get(t, s, "/images/fallback.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestStylesheet(t *testing.T) {
	s := newServer(t, nil, server.Config{})

	page := get(t, s, "/")
	require.Equal(t, http.StatusOK, page.Code)

	href, ok := document(t, page).Find(`link[rel="stylesheet"]`).Attr("href")
	require.True(t, ok)

	rec := get(t, s, href)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), ".promo-card")
}

func TestRun(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	s := newServer(t, nil, server.Config{Addr: addr})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}

		defer res.Body.Close()

		return res.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
