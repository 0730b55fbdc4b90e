// Package state replaces the page-wide globals of the showcase with explicit values:
// the per-request view state, the detail popup and the loaded datasets.
package state

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/emcasacomcecilia/vitrine/internal/catalog"
	"github.com/emcasacomcecilia/vitrine/internal/feed"
)

// Query parameter names.
const (
	ParamCategory    = "categoria"
	ParamSearch      = "q"
	ParamPromoKind   = "tipo"
	ParamPromoSearch = "busca"
	ParamProduct     = "produto"
	ParamPromo       = "promo"
	ParamOffset      = "offset"
)

// AppState is what the visitor selected: filters, search terms and the highlighted record.
type AppState struct {
	Category    string
	Search      string
	PromoKind   string
	PromoSearch string
	Offset      int
	Popup       Popup
}

// FromQuery builds the state from request query parameters, applying defaults.
func FromQuery(values url.Values) AppState {
	st := AppState{
		Category:    strings.TrimSpace(values.Get(ParamCategory)),
		Search:      strings.TrimSpace(values.Get(ParamSearch)),
		PromoKind:   strings.TrimSpace(values.Get(ParamPromoKind)),
		PromoSearch: strings.TrimSpace(values.Get(ParamPromoSearch)),
	}

	if st.Category == "" {
		st.Category = catalog.CategoryAll
	}

	if st.PromoKind == "" {
		st.PromoKind = feed.KindAll
	}

	if offset, err := strconv.Atoi(values.Get(ParamOffset)); err == nil && offset > 0 {
		st.Offset = offset
	}

	if slug := values.Get(ParamProduct); slug != "" {
		st.Popup.Open(PopupProduct, slug)
	}

	if id := values.Get(ParamPromo); id != "" {
		st.Popup.Open(PopupPromotion, id)
	}

	return st
}

// PromoKey identifies the promotions filter; the paginator resets when it changes.
func (s AppState) PromoKey() string {
	return s.PromoKind + "|" + strings.ToLower(s.PromoSearch)
}

// Query encodes the filters back into query parameters (popup excluded).
func (s AppState) Query() url.Values {
	values := url.Values{}

	if s.Category != "" && s.Category != catalog.CategoryAll {
		values.Set(ParamCategory, s.Category)
	}

	if s.Search != "" {
		values.Set(ParamSearch, s.Search)
	}

	if s.PromoKind != "" && s.PromoKind != feed.KindAll {
		values.Set(ParamPromoKind, s.PromoKind)
	}

	if s.PromoSearch != "" {
		values.Set(ParamPromoSearch, s.PromoSearch)
	}

	return values
}

// NextPageQuery is the continuation query used by the scroll sentinel.
func (s AppState) NextPageQuery(offset int) string {
	values := s.Query()
	values.Set(ParamOffset, strconv.Itoa(offset))

	return values.Encode()
}

// WithCategory returns the category link query that keeps the other filters.
func (s AppState) WithCategory(category string) string {
	next := s
	next.Category = category

	return next.Query().Encode()
}

// WithPromoKind returns the promotions filter link query that keeps the other filters.
func (s AppState) WithPromoKind(kind string) string {
	next := s
	next.PromoKind = kind

	return next.Query().Encode()
}
