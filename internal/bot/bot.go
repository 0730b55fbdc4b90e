package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/emcasacomcecilia/vitrine/internal/extractor"
	"github.com/emcasacomcecilia/vitrine/internal/models"
	"github.com/emcasacomcecilia/vitrine/internal/repository/sqlite"
	"gopkg.in/telebot.v4"
)

// maxAnnounced caps how many promotions one notification round sends to a chat.
const maxAnnounced = 10

// Deps are the services the bot commands use.
type Deps struct {
	Subscriptions sqlite.SubscriptionRepository
	Snapshots     Snapshotter
	Offers        OfferExtractor
	Affiliate     extractor.Affiliate
	BaseURL       string
	Window        time.Duration
}

// Bot contains the bot API instance and other information.
type Bot struct {
	bot     API
	log     *slog.Logger
	deps    Deps
	timeout time.Duration
	now     func() time.Time
}

func NewBot(log *slog.Logger, token string, poller time.Duration, deps Deps) (*Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	log.Info("Authorized on account", "account", bot.Me.Username)

	botInstance := newBot(bot, log, deps)
	botInstance.registerRoutes()

	return botInstance, nil
}

func newBot(api API, log *slog.Logger, deps Deps) *Bot {
	return &Bot{
		bot:     api,
		log:     log,
		deps:    deps,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

// NotifyNew sends the new promotions to every subscribed chat that asked for their kind.
func (b *Bot) NotifyNew(ctx context.Context, promos []models.Promotion) error {
	const opn = "bot.NotifyNew"

	subs, err := b.deps.Subscriptions.Subscriptions(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to get subscribers: %w", opn, err)
	}

	var (
		errs []error
		sent int
	)

	for _, sub := range subs {
		wanted := slices.DeleteFunc(slices.Clone(promos), func(p models.Promotion) bool { return !sub.Wants(p) })
		if len(wanted) > maxAnnounced {
			wanted = wanted[:maxAnnounced]
		}

		for _, promo := range wanted {
			if ctx.Err() != nil {
				return fmt.Errorf("%s: %w", opn, ctx.Err())
			}

			_, err = b.bot.Send(&telebot.Chat{ID: sub.ChatID}, FormatPromotion(promo, b.deps.BaseURL), telebot.ModeHTML)
			if err != nil {
				errs = append(errs, fmt.Errorf("chat %d: %w", sub.ChatID, err))
				break
			}

			sent++
		}
	}

	b.log.InfoContext(ctx, "Announced new promotions", "op", opn, "chats", len(subs), "messages", sent)

	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", opn, errors.Join(errs...))
	}

	return nil
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	// Public routes.
	b.bot.Handle("/start", b.startHandler)
	b.bot.Handle("/promos", b.promosHandler)
	b.bot.Handle("/assinar", b.subscribeHandler)
	b.bot.Handle("/cancelar", b.unsubscribeHandler)
	b.bot.Handle(telebot.OnText, b.linkHandler)
}
