package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/emcasacomcecilia/vitrine/internal/models"
)

// LowestPrice returns the minimum positive price across the stores of a product,
// or 0 when no store has a valid price.
func LowestPrice(product models.Product) float64 {
	idx := LowestIndex(product)
	if idx < 0 {
		return 0
	}

	return product.Prices[idx].Price.Float()
}

// LowestIndex returns the position of the first store holding the lowest valid price, or -1.
func LowestIndex(product models.Product) int {
	lowest := -1

	for i, offer := range product.Prices {
		if !offer.Price.Valid() {
			continue
		}

		if lowest < 0 || offer.Price < product.Prices[lowest].Price {
			lowest = i
		}
	}

	return lowest
}

// FormatBRL formats an amount as Brazilian reais, e.g. "R$ 1.234,56".
func FormatBRL(amount float64) string {
	return message.NewPrinter(language.BrazilianPortuguese).Sprintf("R$ %.2f", amount)
}
