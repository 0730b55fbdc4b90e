package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrEmptyProducts = errors.New("error getting VT_PRODUCTS_PATHS: variable contains no product source")

const (
	defaultRefreshInterval = 2 * time.Minute
	defaultRecencyWindow   = 72 * time.Hour
	defaultTelegramTimeout = 15 * time.Second
)

type Config struct {
	Env         string // Env is the current environment: local, development, production.
	StoragePath string
	HTTP        HTTP
	Sources     Sources
	Feed        Feed
	Tg          Telegram
	Affiliate   Affiliate
}

type HTTP struct {
	Addr      string
	BaseURL   string // BaseURL prefixes the share links, e.g. https://vitrine.example.com.
	PublicDir string // PublicDir holds the images directory served under /images.
}

type Sources struct {
	Products        []string // Products are candidate locations tried in order.
	Promotions      []string
	RefreshInterval time.Duration
}

type Feed struct {
	Window   time.Duration // Window is how long a promotion stays visible.
	PageSize int
}

type Telegram struct {
	Token   string        // Token is an unique telegram bot token. The bot is disabled when empty.
	Timeout time.Duration // Timeout is a poller timeout duration.
}

type Affiliate struct {
	AmazonTag string
	MagaluID  string
}

// MustLoad loads the configuration from the .env file and environment variables and returns a Config struct.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("VT")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("PRODUCTS_PATHS", "data/products.json,./data/products.json,../data/products.json")
	viper.SetDefault("PROMOTIONS_PATHS", "data/promocoes.json")
	viper.SetDefault("REFRESH_INTERVAL", defaultRefreshInterval.String())
	viper.SetDefault("RECENCY_WINDOW", defaultRecencyWindow.String())
	viper.SetDefault("PAGE_SIZE", 12)
	viper.SetDefault("STORAGE_PATH", "vitrine.db")
	viper.SetDefault("TELEGRAM_TIMEOUT", defaultTelegramTimeout.String())

	products := splitList(viper.GetString("PRODUCTS_PATHS"))
	if len(products) == 0 {
		panic(ErrEmptyProducts)
	}

	return &Config{
		Env:         viper.GetString("ENV"),
		StoragePath: viper.GetString("STORAGE_PATH"),
		HTTP: HTTP{
			Addr:      viper.GetString("HTTP_ADDR"),
			BaseURL:   strings.TrimRight(viper.GetString("BASE_URL"), "/"),
			PublicDir: viper.GetString("PUBLIC_DIR"),
		},
		Sources: Sources{
			Products:        products,
			Promotions:      splitList(viper.GetString("PROMOTIONS_PATHS")),
			RefreshInterval: positiveDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		},
		Feed: Feed{
			Window:   positiveDuration("RECENCY_WINDOW", defaultRecencyWindow),
			PageSize: viper.GetInt("PAGE_SIZE"),
		},
		Tg: Telegram{
			Token:   viper.GetString("TELEGRAM_TOKEN"),
			Timeout: positiveDuration("TELEGRAM_TIMEOUT", defaultTelegramTimeout),
		},
		Affiliate: Affiliate{
			AmazonTag: viper.GetString("AMAZON_PARTNER_TAG"),
			MagaluID:  viper.GetString("MAGALU_ID"),
		},
	}
}

// positiveDuration reads a duration key, falling back when the value is unparseable or not positive.
func positiveDuration(key string, fallback time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}

	return fallback
}

// splitList splits a comma separated list, dropping blank entries.
func splitList(value string) []string {
	var items []string

	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
