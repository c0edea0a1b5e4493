package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the API. Values come from the
// environment (optionally seeded from a .env file in main) with defaults
// for local development. The JWT secret has no default: an unset secret
// is a startup error, never a baked-in constant.
type Config struct {
	Addr        string
	DatabaseURL string

	JWTSecret     string
	TokenTTLHours int

	// Flat shipping rate applied to every order, matching the mobile
	// client's checkout summary.
	ShippingPrice   float64
	DefaultCategory string

	// RabbitMQ is optional; when the URL is empty order events are not
	// published.
	RabbitMQURL   string
	EventExchange string

	LogLevel string
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

func Load() (Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("CHAIRUP_ADDR", ":8080")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.SetDefault("SHIPPING_PRICE", 10.0)
	viper.SetDefault("DEFAULT_CATEGORY", "Office")
	viper.SetDefault("EVENT_EXCHANGE", "chairup.orders")
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := Config{
		Addr:            viper.GetString("CHAIRUP_ADDR"),
		DatabaseURL:     viper.GetString("DATABASE_URL"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		TokenTTLHours:   viper.GetInt("TOKEN_TTL_HOURS"),
		ShippingPrice:   viper.GetFloat64("SHIPPING_PRICE"),
		DefaultCategory: viper.GetString("DEFAULT_CATEGORY"),
		RabbitMQURL:     viper.GetString("RABBITMQ_URL"),
		EventExchange:   viper.GetString("EVENT_EXCHANGE"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
}
