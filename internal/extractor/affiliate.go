package extractor

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/emcasacomcecilia/vitrine/internal/catalog"
)

var (
	amazonASIN     = regexp.MustCompile(`/(?:dp|gp/product)/([A-Za-z0-9]{10})`)
	magaluPath     = regexp.MustCompile(`magazineluiza\.com\.br(/.*)`)
	magaluStore    = regexp.MustCompile(`/magazine[^/]+/`)
	shopeeIDs      = regexp.MustCompile(`(\d{8,})[./](\d{8,})`)
	mercadoLivreID = regexp.MustCompile(`(MLB-?\d+)`)
)

// Affiliate rewrites store links into affiliate links.
type Affiliate struct {
	AmazonTag string
	MagaluID  string
}

// Convert returns the affiliate link of an offer. Links of unknown stores, or of stores
// without credentials, are returned unchanged apart from tracking cleanup.
func (a Affiliate) Convert(link, store string) string {
	switch store {
	case "Amazon":
		if a.AmazonTag == "" {
			return link
		}

		if match := amazonASIN.FindStringSubmatch(link); match != nil {
			return fmt.Sprintf("https://www.amazon.com.br/dp/%s?tag=%s&linkCode=sl1&language=pt_BR",
				match[1], url.QueryEscape(a.AmazonTag))
		}

		if strings.Contains(link, "tag=") {
			return link
		}

		sep := "?"
		if strings.Contains(link, "?") {
			sep = "&"
		}

		return link + sep + "tag=" + url.QueryEscape(a.AmazonTag) + "&linkCode=sl1&language=pt_BR"
	case "Magalu":
		if a.MagaluID == "" {
			return link
		}

		id := strings.TrimSpace(strings.NewReplacer("magazine", "", "voce", "").Replace(strings.ToLower(a.MagaluID)))

		path := ""
		if match := magaluPath.FindStringSubmatch(link); match != nil {
			path = match[1]
		} else if parsed, err := url.Parse(link); err == nil {
			path = parsed.Path
		}

		path = magaluStore.ReplaceAllString(path, "/")

		return strings.ReplaceAll("https://www.magazinevoce.com.br/magazine"+id+path, "//p/", "/p/")
	case "Shopee":
		if strings.Contains(link, "shope.ee") {
			return link
		}

		if match := shopeeIDs.FindStringSubmatch(link); match != nil {
			return fmt.Sprintf("https://shopee.com.br/product/%s/%s", match[1], match[2])
		}

		return stripQuery(link)
	case "Mercado Livre":
		if strings.Contains(link, "/sec/") {
			return link
		}

		if match := mercadoLivreID.FindStringSubmatch(link); match != nil {
			id := strings.ReplaceAll(match[1], "-", "")

			return "https://produto.mercadolivre.com.br/MLB-" + id[3:]
		}

		return stripQuery(link)
	default:
		return link
	}
}

// Caption is the HTML post published for an offer.
func Caption(offer Offer, link string) string {
	priceLine := "💲 <b>Preço indisponível</b>"

	if offer.Price > 0 {
		priceLine = "💲 <b>" + catalog.FormatBRL(offer.Price) + "</b>"

		if discount := offer.Discount(); discount > 0 {
			priceLine += fmt.Sprintf(" <s>De %s</s> (-%d%%)", catalog.FormatBRL(offer.OriginalPrice), discount)
		}
	}

	var b strings.Builder

	fmt.Fprintf(&b, "🛒 <b>%s</b>\n\n", html.EscapeString(offer.Title))
	b.WriteString(priceLine + "\n")
	b.WriteString("📦 Frete grátis (verifique regras)\n\n")
	fmt.Fprintf(&b, "👉 <a href=\"%s\"><b>CLIQUE AQUI PARA COMPRAR</b></a>", html.EscapeString(link))

	return b.String()
}

func stripQuery(link string) string {
	base, _, _ := strings.Cut(link, "?")

	return base
}
