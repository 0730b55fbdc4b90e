package catalog

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// CategoryAll selects every category.
	CategoryAll = "all"
	// CategoryOther is used for products without a category.
	CategoryOther = "outros"
	// FallbackImage replaces missing or broken images.
	FallbackImage = "./images/fallback.png"

	dateUnavailable = "Data não disponível"
)

var whitespace = regexp.MustCompile(`\s+`)

// CategoryName turns a category slug into its display label ("casa-inteligente" -> "Casa Inteligente").
func CategoryName(slug string) string {
	switch slug {
	case CategoryAll:
		return "Todas as Categorias"
	case "":
		slug = CategoryOther
	}

	words := strings.Split(slug, "-")
	caser := cases.Title(language.BrazilianPortuguese)

	for i, word := range words {
		words[i] = caser.String(word)
	}

	return strings.Join(words, " ")
}

// FormatDate converts YYYY-MM-DD into DD/MM/YYYY.
func FormatDate(date string) string {
	parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return dateUnavailable
	}

	return parsed.Format("02/01/2006")
}

// SanitizeImagePath normalizes an image path relative to the site root and falls back
// to the placeholder image when the path is empty.
func SanitizeImagePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return FallbackImage
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "./") {
		return path
	}

	return "./" + strings.TrimLeft(path, "/")
}

// SanitizeURL keeps http(s) links and replaces anything else with "#".
func SanitizeURL(link string) string {
	link = strings.TrimSpace(link)

	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return link
	}

	return "#"
}

// Slug is the deep-link key of a product name: lower case, whitespace runs replaced by dashes.
func Slug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Contains reports whether text contains term, ignoring case.
func Contains(text, term string) bool {
	fold := cases.Fold()

	return strings.Contains(fold.String(text), fold.String(term))
}
