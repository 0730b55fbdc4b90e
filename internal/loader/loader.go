// Package loader reads the products and promotions documents from the first
// candidate location that answers, local file or HTTP URL.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/emcasacomcecilia/vitrine/internal/models"
)

// ErrNoSource is returned when no candidate location could be read.
var ErrNoSource = errors.New("no data source available")

const maxDocumentSize = 16 << 20

type Loader struct {
	log          *slog.Logger
	client       *http.Client
	productPaths []string
	promoPaths   []string
}

func New(log *slog.Logger, productPaths, promoPaths []string) *Loader {
	return &Loader{
		log:          log,
		client:       http.DefaultClient,
		productPaths: productPaths,
		promoPaths:   promoPaths,
	}
}

// LoadProducts returns the catalog from the first readable location, or the
// built-in sample catalog when every location fails.
func (l *Loader) LoadProducts(ctx context.Context) ([]models.Product, error) {
	const opn = "loader.LoadProducts"

	log := l.log.With("op", opn)

	data, source, err := l.first(ctx, l.productPaths)
	if err == nil {
		var products []models.Product

		products, err = l.decodeProducts(ctx, data)
		if err == nil {
			log.InfoContext(ctx, "products loaded", "source", source, "count", len(products))

			return products, nil
		}
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s: %w", opn, ctx.Err())
	}

	log.WarnContext(ctx, "failed to load products from every location, using sample catalog", "error", err)

	return SampleProducts(), nil
}

// LoadFeed returns the promotions feed and its raw bytes. Entries without an id get a
// stable one derived from their content.
func (l *Loader) LoadFeed(ctx context.Context) (*models.Feed, []byte, error) {
	const opn = "loader.LoadFeed"

	data, source, err := l.first(ctx, l.promoPaths)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opn, err)
	}

	var doc struct {
		Promotions []json.RawMessage `json:"promocoes"`
	}

	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%s: failed to decode feed from %s: %w", opn, source, err)
	}

	feed := &models.Feed{Promotions: make([]models.Promotion, 0, len(doc.Promotions))}

	for idx, raw := range doc.Promotions {
		var promo models.Promotion
		if err = json.Unmarshal(raw, &promo); err != nil {
			l.log.WarnContext(ctx, "skipping malformed promotion", "op", opn, "index", idx, "error", err)

			continue
		}

		feed.Promotions = append(feed.Promotions, promo.WithID())
	}

	l.log.DebugContext(ctx, "feed loaded", "op", opn, "source", source, "count", len(feed.Promotions))

	return feed, data, nil
}

// first reads the candidates in order and returns the first success.
func (l *Loader) first(ctx context.Context, paths []string) ([]byte, string, error) {
	lastErr := errors.New("no locations configured")

	for _, path := range paths {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}

		data, err := l.fetch(ctx, path)
		if err == nil {
			return data, path, nil
		}

		l.log.DebugContext(ctx, "location failed", "path", path, "error", err)
		lastErr = err
	}

	return nil, "", fmt.Errorf("%w: %w", ErrNoSource, lastErr)
}

func (l *Loader) fetch(ctx context.Context, path string) ([]byte, error) {
	if !isRemote(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		return data, nil
	}

	res, err := l.getResponse(ctx, path)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", path, err)
	}

	return data, nil
}

func (l *Loader) getResponse(ctx context.Context, rawURL string) (*http.Response, error) {
	reqURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %s: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", reqURL.String(), err)
	}

	req.Header.Add("User-Agent", "Mozilla/5.0 (compatible; GoHttpClient/1.0)")
	req.Header.Add("Cache-Control", "no-store")

	l.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL)

	res, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", rawURL, err)
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()

		return nil, fmt.Errorf("status code error: [%d] %s", res.StatusCode, res.Status)
	}

	return res, nil
}

// decodeProducts decodes the top-level array record by record, skipping the ones
// that do not decode.
func (l *Loader) decodeProducts(ctx context.Context, data []byte) ([]models.Product, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("products document is not a list: %w", err)
	}

	products := make([]models.Product, 0, len(records))

	for idx, raw := range records {
		var product models.Product
		if err := json.Unmarshal(raw, &product); err != nil {
			l.log.WarnContext(ctx, "skipping malformed product", "index", idx, "error", err)

			continue
		}

		products = append(products, product)
	}

	if len(products) == 0 {
		return nil, errors.New("products document is empty")
	}

	return products, nil
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
