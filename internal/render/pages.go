package render

import (
	"strings"
	"time"

	"github.com/emcasacomcecilia/vitrine/internal/catalog"
	"github.com/emcasacomcecilia/vitrine/internal/feed"
	"github.com/emcasacomcecilia/vitrine/internal/models"
	"github.com/emcasacomcecilia/vitrine/internal/state"
)

const (
	noPromotions      = "Nenhuma promoção no momento."
	noMatchingPromos  = "Nenhuma promoção encontrada."
	promotionsFailure = "Erro ao carregar promoções."

	// PromoPageEndpoint serves the next page of promotion cards.
	PromoPageEndpoint = "/promocoes/pagina"
)

// Options are the page settings shared by every request.
type Options struct {
	Now      time.Time
	Window   time.Duration
	PageSize int
	BaseURL  string
	// Stats is the price history of the promotion shown in the popup.
	Stats models.PriceStats
}

// FilterLink is one entry of the category or promotion kind bar.
type FilterLink struct {
	Label  string
	URL    string
	Active bool
}

// ProductList is the catalog section.
type ProductList struct {
	Cards       []ProductCard
	Suggestions []ProductCard
	Summary     string
	Empty       string
}

// PromoPage is one batch of promotion cards followed, when more remain, by the sentinel.
type PromoPage struct {
	Cards   []PromoCard
	HasMore bool
	NextURL string
	Empty   string
}

// IndexPage is the whole showcase page.
type IndexPage struct {
	State        state.AppState
	Categories   []FilterLink
	PromoKinds   []FilterLink
	Products     ProductList
	Promotions   PromoPage
	ProductPopup *ProductCard
	PromoPopup   *PromoCard
}

// BuildIndex assembles the page for a snapshot and the visitor's state.
func BuildIndex(snap state.Snapshot, st state.AppState, opts Options) IndexPage {
	page := IndexPage{
		State:      st,
		Categories: categoryLinks(snap.Products, st),
		PromoKinds: kindLinks(st),
		Products:   buildProducts(snap.Products, st, opts.BaseURL),
		Promotions: BuildPromoPage(snap, st, opts),
	}

	kind, id := st.Popup.Current()

	switch kind {
	case state.PopupProduct:
		if product, ok := catalog.FindBySlug(snap.Products, id); ok {
			card := NewProductCard(product, opts.BaseURL)
			page.ProductPopup = &card
		}
	case state.PopupPromotion:
		if promo, ok := FindVisible(snap.Promotions, id, opts); ok {
			card := NewPromoCard(promo, opts.Now, opts.Stats)
			page.PromoPopup = &card
		}
	}

	return page
}

// BuildPromoPage pages the visible promotions. With a zero offset it is the first page,
// otherwise the page that follows offset cards.
func BuildPromoPage(snap state.Snapshot, st state.AppState, opts Options) PromoPage {
	visible := feed.Visible(snap.Promotions, opts.Now, window(opts), st.PromoKind, st.PromoSearch)

	key := st.PromoKey()
	paginator := feed.NewPaginator[models.Promotion](opts.PageSize)
	batch := paginator.Trigger(key, visible)

	if st.Offset > 0 {
		paginator.Restore(st.Offset)
		batch = paginator.Trigger(key, visible)
	}

	page := PromoPage{
		Cards:   NewPromoCards(batch, opts.Now),
		HasMore: paginator.HasMore(),
	}

	if page.HasMore {
		page.NextURL = PromoPageEndpoint + "?" + st.NextPageQuery(paginator.Count())
	}

	if len(visible) == 0 && st.Offset == 0 {
		page.Empty = emptyPromotions(snap, st)
	}

	return page
}

func emptyPromotions(snap state.Snapshot, st state.AppState) string {
	switch {
	case snap.PromotionsErr != nil && len(snap.Promotions) == 0:
		return promotionsFailure
	case strings.TrimSpace(st.PromoSearch) != "":
		return noMatchingPromos
	default:
		return noPromotions
	}
}

// FindVisible looks a promotion up among the ones that are still recent.
func FindVisible(promos []models.Promotion, id string, opts Options) (models.Promotion, bool) {
	promo, ok := feed.Find(promos, id)
	if !ok || feed.Expired(promo, opts.Now, window(opts)) {
		return models.Promotion{}, false
	}

	return promo, true
}

func buildProducts(products []models.Product, st state.AppState, baseURL string) ProductList {
	res := catalog.Search(products, st.Category, st.Search)

	return ProductList{
		Cards:       NewProductCards(res.Items, baseURL),
		Suggestions: NewProductCards(res.Suggestions, baseURL),
		Summary:     res.Summary,
		Empty:       res.Empty,
	}
}

func categoryLinks(products []models.Product, st state.AppState) []FilterLink {
	categories := append([]string{catalog.CategoryAll}, catalog.Categories(products)...)
	links := make([]FilterLink, 0, len(categories))

	for _, category := range categories {
		links = append(links, FilterLink{
			Label:  catalog.CategoryName(category),
			URL:    "/?" + st.WithCategory(category),
			Active: category == st.Category,
		})
	}

	return links
}

func kindLinks(st state.AppState) []FilterLink {
	kinds := []struct{ kind, label string }{
		{feed.KindAll, "Todos"},
		{models.KindPromo, "Promoções"},
		{models.KindCoupon, "Cupons"},
	}

	links := make([]FilterLink, 0, len(kinds))
	for _, k := range kinds {
		links = append(links, FilterLink{
			Label:  k.label,
			URL:    "/?" + st.WithPromoKind(k.kind),
			Active: k.kind == st.PromoKind,
		})
	}

	return links
}

func window(opts Options) time.Duration {
	if opts.Window <= 0 {
		return feed.DefaultWindow
	}

	return opts.Window
}
