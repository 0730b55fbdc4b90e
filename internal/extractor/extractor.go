// Package extractor reads offer metadata (title, image, prices) from a store page.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/emcasacomcecilia/vitrine/internal/models"
)

// ErrNoTitle is returned when the page has no recognizable product title.
var ErrNoTitle = errors.New("offer title not found")

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Offer is what could be read from an offer page.
type Offer struct {
	Title         string
	Image         string
	Store         string
	URL           string
	Price         float64
	OriginalPrice float64
}

// Discount is the truncated percentage off the original price, 0 when there is none.
func (o Offer) Discount() int {
	if o.Price <= 0 || o.OriginalPrice <= o.Price {
		return 0
	}

	return int((o.OriginalPrice - o.Price) / o.OriginalPrice * 100)
}

type Extractor struct {
	log    *slog.Logger
	client *http.Client
}

func New(log *slog.Logger, client *http.Client) *Extractor {
	if client == nil {
		client = http.DefaultClient
	}

	return &Extractor{log: log, client: client}
}

// FindURL returns the first http(s) link in a message, or "".
func FindURL(text string) string {
	return strings.TrimRight(urlPattern.FindString(text), ".,;)")
}

// Extract downloads the page and reads the offer metadata. The store is derived from
// the final URL after redirects.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (Offer, error) {
	const opn = "extractor.Extract"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Offer{}, fmt.Errorf("%s: failed to create request: %w", opn, err)
	}

	req.Header.Add("User-Agent", "Mozilla/5.0 (compatible; GoHttpClient/1.0)")
	req.Header.Add("Accept-Language", "pt-BR,pt;q=0.9")

	e.log.DebugContext(ctx, "Send request", "op", opn, "URL", req.URL)

	res, err := e.client.Do(req)
	if err != nil {
		return Offer{}, fmt.Errorf("%s: failed to request %s: %w", opn, rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Offer{}, fmt.Errorf("%s: status code error: [%d] %s", opn, res.StatusCode, res.Status)
	}

	finalURL := rawURL
	if res.Request != nil && res.Request.URL != nil {
		finalURL = res.Request.URL.String()
	}

	offer, err := Parse(res.Body, finalURL)
	if err != nil {
		return Offer{}, fmt.Errorf("%s: %w", opn, err)
	}

	e.log.InfoContext(ctx, "offer extracted", "op", opn, "store", offer.Store, "price", offer.Price)

	return offer, nil
}

// Parse reads the offer metadata from an HTML document located at pageURL.
func Parse(r io.Reader, pageURL string) (Offer, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Offer{}, fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}

	offer := Offer{
		URL:   pageURL,
		Store: StoreFromURL(pageURL),
		Title: firstNonEmpty(
			metaContent(doc, `meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("h1").First().Text()),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Image: resolve(pageURL, firstNonEmpty(
			metaContent(doc, `meta[property="og:image"]`),
			doc.Find(`img[class*="Image"], img#landingImage`).First().AttrOr("src", ""),
		)),
	}

	if offer.Title == "" {
		return Offer{}, ErrNoTitle
	}

	offer.Price = firstPrice(
		metaContent(doc, `meta[property="product:price:amount"]`),
		metaContent(doc, `meta[property="og:price:amount"]`),
		metaContent(doc, `meta[itemprop="price"]`),
		strings.TrimSpace(doc.Find(`[itemprop="price"]`).First().Text()),
		strings.TrimSpace(doc.Find(`span[class*="Price"], div[class*="Price"]`).First().Text()),
	)

	offer.OriginalPrice = firstPrice(
		metaContent(doc, `meta[property="product:original_price:amount"]`),
		strings.TrimSpace(doc.Find(`del, s, [class*="OldPrice"], [class*="original-price"]`).First().Text()),
	)

	if offer.OriginalPrice < offer.Price {
		offer.OriginalPrice = offer.Price
	}

	return offer, nil
}

// StoreFromURL names the store by its domain.
func StoreFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "Oferta"
	}

	host := strings.ToLower(parsed.Hostname())

	switch {
	case strings.Contains(host, "shopee"), strings.Contains(host, "shope.ee"):
		return "Shopee"
	case strings.Contains(host, "amazon"), strings.Contains(host, "amzn"):
		return "Amazon"
	case strings.Contains(host, "magalu"), strings.Contains(host, "magazine"):
		return "Magalu"
	case strings.Contains(host, "mercadolivre"), strings.Contains(host, "mercadolibre"):
		return "Mercado Livre"
	default:
		return "Oferta"
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}

func firstPrice(values ...string) float64 {
	for _, value := range values {
		if price := models.ParsePrice(cleanPrice(value)); price > 0 {
			return price
		}
	}

	return 0
}

var priceChars = regexp.MustCompile(`[^\d.,]`)

// cleanPrice drops currency symbols and labels around the amount.
func cleanPrice(text string) string {
	return priceChars.ReplaceAllString(text, "")
}

func resolve(base, ref string) string {
	if ref == "" {
		return ""
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return baseURL.ResolveReference(refURL).String()
}
