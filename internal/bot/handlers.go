package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/emcasacomcecilia/vitrine/internal/extractor"
	"github.com/emcasacomcecilia/vitrine/internal/feed"
	"github.com/emcasacomcecilia/vitrine/internal/models"
	"gopkg.in/telebot.v4"
)

const (
	greeting = "🤖 <b>Divulgador Caseiro</b>\n" +
		"Mande um link para gerar o post.\n\n" +
		"/promos - últimas promoções\n" +
		"/assinar [promo|cupom] - receber novas promoções aqui\n" +
		"/cancelar - parar de receber"
	latestCount = 5

	subscribeUsage = "Use /assinar, /assinar promo ou /assinar cupom."
)

// startHandler process command /start.
func (b *Bot) startHandler(ctx telebot.Context) error {
	b.log.Info("User started the bot", "username", ctx.Sender().Username)

	if err := ctx.Send(greeting, telebot.ModeHTML); err != nil {
		return fmt.Errorf("failed to send greeting message: %w", err)
	}

	return nil
}

// promosHandler replies with the most recent promotions.
func (b *Bot) promosHandler(ctx telebot.Context) error {
	snap := b.deps.Snapshots.Snapshot()
	latest := feed.SortNewest(feed.Recent(snap.Promotions, b.now(), b.deps.Window))

	if len(latest) == 0 {
		if err := ctx.Send("Nenhuma promoção no momento."); err != nil {
			return fmt.Errorf("failed to send empty promotions message: %w", err)
		}

		return nil
	}

	for _, promo := range latest[:min(latestCount, len(latest))] {
		if err := ctx.Send(FormatPromotion(promo, b.deps.BaseURL), telebot.ModeHTML); err != nil {
			return fmt.Errorf("failed to send promotion %s: %w", promo.ID, err)
		}
	}

	return nil
}

// subscribeHandler process command /assinar [promo|cupom|todos].
func (b *Bot) subscribeHandler(ctx telebot.Context) error {
	kind, ok := subscriptionKind(ctx.Args())
	if !ok {
		return ctx.Send(subscribeUsage)
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	sub := models.Subscription{ChatID: ctx.Chat().ID, Kind: kind, Since: b.now()}

	created, err := b.deps.Subscriptions.Subscribe(reqCtx, sub)
	if err != nil {
		b.log.Error("failed to subscribe chat", "chat", sub.ChatID, "error", err)

		return ctx.Send("❌ Não foi possível assinar agora. Tente novamente mais tarde.")
	}

	b.log.Info("Chat subscribed", "chat", sub.ChatID, "kind", kind, "created", created)

	reply := "🔁 Assinatura atualizada"
	if created {
		reply = "✅ Você receberá as novas promoções aqui"
	}

	if err = ctx.Send(reply + kindSuffix(kind) + "."); err != nil {
		return fmt.Errorf("failed to send subscribe confirmation: %w", err)
	}

	return nil
}

// unsubscribeHandler process command /cancelar.
func (b *Bot) unsubscribeHandler(ctx telebot.Context) error {
	reqCtx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	removed, err := b.deps.Subscriptions.Unsubscribe(reqCtx, ctx.Chat().ID)
	if err != nil {
		b.log.Error("failed to unsubscribe chat", "chat", ctx.Chat().ID, "error", err)

		return ctx.Send("❌ Não foi possível cancelar agora. Tente novamente mais tarde.")
	}

	reply := "Este chat não tinha assinatura."
	if removed {
		reply = "🔕 Assinatura cancelada."
	}

	if err = ctx.Send(reply); err != nil {
		return fmt.Errorf("failed to send unsubscribe confirmation: %w", err)
	}

	return nil
}

// subscriptionKind reads the optional kind argument of /assinar. "todos" and no
// argument both mean every kind, stored as "".
func subscriptionKind(args []string) (string, bool) {
	if len(args) == 0 {
		return "", true
	}

	switch kind := strings.ToLower(args[0]); kind {
	case models.KindPromo, models.KindCoupon:
		return kind, true
	case feed.KindAll:
		return "", true
	default:
		return "", false
	}
}

func kindSuffix(kind string) string {
	switch kind {
	case models.KindPromo:
		return " (somente promoções)"
	case models.KindCoupon:
		return " (somente cupons)"
	default:
		return ""
	}
}

// linkHandler turns a store link into a ready-to-share post.
func (b *Bot) linkHandler(ctx telebot.Context) error {
	link := extractor.FindURL(ctx.Text())
	if link == "" {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	offer, err := b.deps.Offers.Extract(reqCtx, link)
	if err != nil {
		b.log.Warn("failed to extract offer", "url", link, "error", err)

		return ctx.Send("❌ Erro ao ler produto.")
	}

	caption := extractor.Caption(offer, b.deps.Affiliate.Convert(offer.URL, offer.Store))

	if offer.Image != "" {
		photo := &telebot.Photo{File: telebot.FromURL(offer.Image), Caption: caption}
		if err = ctx.Send(photo, telebot.ModeHTML); err == nil {
			return nil
		}

		b.log.Warn("failed to send offer photo, falling back to text", "error", err)
	}

	if err = ctx.Send(caption, telebot.ModeHTML); err != nil {
		return fmt.Errorf("failed to send offer caption: %w", err)
	}

	return nil
}
