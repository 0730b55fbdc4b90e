package loader

import "github.com/emcasacomcecilia/vitrine/internal/models"

// SampleProducts is the catalog shown when no products document can be read.
func SampleProducts() []models.Product {
	return []models.Product{
		{
			Name:     "Produto de exemplo para debug",
			Category: "outros",
			Date:     "2025-04-01",
			Image:    "images/fallback.png",
			Prices: models.StorePrices{
				{Store: "Amazon", Price: 99.90, Link: "https://amazon.com.br", Logo: "images/logos/amazon.png"},
				{Store: "Mercado Livre", Price: 89.90, Link: "https://mercadolivre.com.br", Logo: "images/logos/ML.png"},
			},
			Links: models.Links{
				YouTube: "https://youtube.com",
				Review:  "https://emcasacomcecilia.com",
			},
		},
		{
			Name:     "Outro produto de exemplo",
			Category: "cozinha",
			Date:     "2025-04-10",
			Image:    "images/fallback.png",
			Prices: models.StorePrices{
				{Store: "Shopee", Price: 79.90, Link: "https://shopee.com.br", Logo: "images/logos/shopee.png"},
			},
		},
	}
}
