package bot

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/emcasacomcecilia/vitrine/internal/catalog"
	"github.com/emcasacomcecilia/vitrine/internal/feed"
	"github.com/emcasacomcecilia/vitrine/internal/models"
)

// FormatPromotion renders a promotion as a Telegram HTML message. With a base URL the
// message also links to the promotion on the site.
func FormatPromotion(promo models.Promotion, baseURL string) string {
	var b strings.Builder

	esc := html.EscapeString

	if promo.IsCoupon() {
		fmt.Fprintf(&b, "🎟️ <b>%s</b>\n", esc(promo.CouponDescription))
		fmt.Fprintf(&b, "🏪 %s\n", esc(promo.Store))

		if promo.CouponCode != "" {
			fmt.Fprintf(&b, "Código: <code>%s</code>\n", esc(promo.CouponCode))
		}

		fmt.Fprintf(&b, "\n👉 <a href=\"%s\">Ir para a loja</a>", esc(catalog.SanitizeURL(promo.Link)))
	} else {
		title := esc(promo.Product)
		if promo.Featured {
			title = "🔥 " + title
		}

		fmt.Fprintf(&b, "🛒 <b>%s</b>\n", title)
		fmt.Fprintf(&b, "🏪 %s\n", esc(promo.Store))

		if promo.Price.Valid() {
			fmt.Fprintf(&b, "💲 <b>%s</b>", catalog.FormatBRL(promo.Price.Float()))

			if discount := feed.Discount(promo); discount > 0 {
				fmt.Fprintf(&b, " <s>De %s</s> (-%d%%)", catalog.FormatBRL(promo.OldPrice.Float()), discount)
			}

			b.WriteString("\n")
		}

		if promo.Coupon != "" {
			fmt.Fprintf(&b, "🎟️ Cupom: <code>%s</code>\n", esc(promo.Coupon))
		}

		if promo.Info != "" {
			fmt.Fprintf(&b, "ℹ️ %s\n", esc(promo.Info))
		}

		fmt.Fprintf(&b, "\n👉 <a href=\"%s\"><b>CLIQUE AQUI PARA COMPRAR</b></a>", esc(catalog.SanitizeURL(promo.Link)))
	}

	if baseURL != "" && promo.ID != "" {
		detail := strings.TrimRight(baseURL, "/") + "/?" + url.Values{"promo": {promo.ID}}.Encode()
		fmt.Fprintf(&b, "\n🔗 <a href=\"%s\">Ver na vitrine</a>", esc(detail))
	}

	return b.String()
}
