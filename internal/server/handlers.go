package server

import (
	"net/http"

	"github.com/emcasacomcecilia/vitrine/internal/catalog"
	"github.com/emcasacomcecilia/vitrine/internal/feed"
	"github.com/emcasacomcecilia/vitrine/internal/render"
	"github.com/emcasacomcecilia/vitrine/internal/state"
	"github.com/gin-gonic/gin"
)

const promoNotFound = "Promoção não encontrada."

func (s *Server) indexHandler(c *gin.Context) {
	snap := s.store.Snapshot()
	st := state.FromQuery(c.Request.URL.Query())
	opts := s.options()

	if kind, id := st.Popup.Current(); kind == state.PopupPromotion {
		if promo, ok := render.FindVisible(snap.Promotions, id, opts); ok {
			opts.Stats = s.stats(c.Request.Context(), promo)
		}
	}

	c.HTML(http.StatusOK, render.IndexTemplate, render.BuildIndex(snap, st, opts))
}

func (s *Server) promoPageHandler(c *gin.Context) {
	snap := s.store.Snapshot()
	st := state.FromQuery(c.Request.URL.Query())

	c.HTML(http.StatusOK, render.PromoPageTemplate, render.BuildPromoPage(snap, st, s.options()))
}

func (s *Server) promoPopupHandler(c *gin.Context) {
	opts := s.options()

	promo, ok := render.FindVisible(s.store.Snapshot().Promotions, c.Param("id"), opts)
	if !ok {
		c.String(http.StatusNotFound, promoNotFound)

		return
	}

	card := render.NewPromoCard(promo, opts.Now, s.stats(c.Request.Context(), promo))

	c.HTML(http.StatusOK, render.PromoPopupTemplate, card)
}

func (s *Server) productsAPIHandler(c *gin.Context) {
	st := state.FromQuery(c.Request.URL.Query())
	result := catalog.Search(s.store.Snapshot().Products, st.Category, st.Search)

	c.JSON(http.StatusOK, gin.H{
		"produtos":  nonNil(result.Items),
		"sugestoes": nonNil(result.Suggestions),
		"resumo":    result.Summary,
	})
}

func (s *Server) promotionsAPIHandler(c *gin.Context) {
	st := state.FromQuery(c.Request.URL.Query())
	opts := s.options()

	visible := feed.Visible(s.store.Snapshot().Promotions, opts.Now, opts.Window, st.PromoKind, st.PromoSearch)

	c.JSON(http.StatusOK, gin.H{
		"promocoes": nonNil(visible),
		"total":     len(visible),
	})
}

func (s *Server) healthHandler(c *gin.Context) {
	snap := s.store.Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"produtos":  len(snap.Products),
		"promocoes": len(snap.Promotions),
	})
}

// nonNil keeps empty lists as [] in JSON.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}
