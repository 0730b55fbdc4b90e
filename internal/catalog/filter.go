package catalog

import (
	"fmt"
	"strings"

	"github.com/emcasacomcecilia/vitrine/internal/models"
)

// Result is the outcome of filtering the catalog for one category and search term.
type Result struct {
	Items []models.Product
	// Suggestions are products matching the term in other categories,
	// filled only when the selected category has no match.
	Suggestions []models.Product
	Summary     string
	// Empty is the "no results" message, or "" when Items is not empty.
	Empty string
}

// Filter returns, in their original order, the products that belong to category
// ("all" or "" for any) and whose name contains term, ignoring case.
func Filter(products []models.Product, category, term string) []models.Product {
	term = strings.TrimSpace(term)
	filtered := make([]models.Product, 0, len(products))

	for _, product := range products {
		if matchesCategory(product, category) && matchesTerm(product, term) {
			filtered = append(filtered, product)
		}
	}

	return filtered
}

// Search filters the catalog and builds the count and empty-state texts shown above the list.
func Search(products []models.Product, category, term string) Result {
	term = strings.TrimSpace(term)
	if category == "" {
		category = CategoryAll
	}

	res := Result{Items: Filter(products, category, term)}
	label := CategoryName(category)
	res.Summary = Summary(len(res.Items), category)

	switch {
	case len(res.Items) > 0:
	case term != "":
		res.Suggestions = Suggestions(products, category, term)

		if len(res.Suggestions) > 0 {
			res.Empty = fmt.Sprintf("Não encontramos %q na categoria %q.", term, label)
		} else {
			res.Empty = fmt.Sprintf("Nenhum produto encontrado para %q.", term)
		}
	case category != CategoryAll:
		res.Empty = fmt.Sprintf("Nenhum produto encontrado na categoria %q.", label)
	default:
		res.Empty = "Nenhum produto disponível no momento."
	}

	return res
}

// Suggestions returns the products matching term outside category.
func Suggestions(products []models.Product, category, term string) []models.Product {
	term = strings.TrimSpace(term)
	if term == "" || category == "" || category == CategoryAll {
		return nil
	}

	var suggestions []models.Product

	for _, product := range Filter(products, CategoryAll, term) {
		if !matchesCategory(product, category) {
			suggestions = append(suggestions, product)
		}
	}

	return suggestions
}

// Summary is the results-count text for a category.
func Summary(count int, category string) string {
	plural := "s"
	if count == 1 {
		plural = ""
	}

	return fmt.Sprintf("Encontrados: %d produto%s na categoria %q", count, plural, CategoryName(category))
}

// FindBySlug returns the product whose name slug equals slug.
func FindBySlug(products []models.Product, slug string) (models.Product, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return models.Product{}, false
	}

	for _, product := range products {
		if Slug(product.Name) == slug {
			return product, true
		}
	}

	return models.Product{}, false
}

// Categories lists the distinct category slugs in order of first appearance.
func Categories(products []models.Product) []string {
	seen := make(map[string]bool)

	var categories []string

	for _, product := range products {
		category := categoryOf(product)
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}

	return categories
}

func matchesCategory(product models.Product, category string) bool {
	return category == "" || category == CategoryAll || categoryOf(product) == category
}

func matchesTerm(product models.Product, term string) bool {
	return term == "" || Contains(product.Name, term)
}

func categoryOf(product models.Product) string {
	if product.Category == "" {
		return CategoryOther
	}

	return product.Category
}
