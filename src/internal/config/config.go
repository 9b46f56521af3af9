package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	PinCodecShift  = "shift"
	PinCodecBcrypt = "bcrypt"
)

// SeedAccount is one account created at startup. Per the historical
// data set the initial PIN equals the card number.
type SeedAccount struct {
	CardNumber string
	Balance    decimal.Decimal
}

type Config struct {
	Port              string
	ChannelID         string
	ChannelKey        string
	PinCodec          string
	StrictFeeCheck    bool
	LoginRatePerSec   int
	SeedAccounts      []SeedAccount
	ShutdownTimeoutMS int
}

func Load() (Config, error) {
	viper.SetEnvPrefix("atm")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("CHANNEL_ID", "ATMTerminal01")
	viper.SetDefault("CHANNEL_KEY", "TerminalKey001")
	viper.SetDefault("PIN_CODEC", PinCodecShift)
	viper.SetDefault("STRICT_FEE_CHECK", false)
	viper.SetDefault("LOGIN_RATE_PER_SEC", 5)
	viper.SetDefault("SEED_ACCOUNTS", "1234=1000.00,5678=2000.00")
	viper.SetDefault("SHUTDOWN_TIMEOUT_MS", 10000)

	// Optional config.yaml alongside the binary; env wins.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig()

	codec := strings.ToLower(strings.TrimSpace(viper.GetString("PIN_CODEC")))
	if codec != PinCodecShift && codec != PinCodecBcrypt {
		return Config{}, fmt.Errorf("PIN_CODEC must be %q or %q, got %q", PinCodecShift, PinCodecBcrypt, codec)
	}

	seeds, err := parseSeedAccounts(viper.GetString("SEED_ACCOUNTS"))
	if err != nil {
		return Config{}, err
	}

	rate := viper.GetInt("LOGIN_RATE_PER_SEC")
	if rate <= 0 {
		return Config{}, fmt.Errorf("LOGIN_RATE_PER_SEC must be positive, got %d", rate)
	}

	return Config{
		Port:              strings.TrimSpace(viper.GetString("PORT")),
		ChannelID:         strings.TrimSpace(viper.GetString("CHANNEL_ID")),
		ChannelKey:        strings.TrimSpace(viper.GetString("CHANNEL_KEY")),
		PinCodec:          codec,
		StrictFeeCheck:    viper.GetBool("STRICT_FEE_CHECK"),
		LoginRatePerSec:   rate,
		SeedAccounts:      seeds,
		ShutdownTimeoutMS: viper.GetInt("SHUTDOWN_TIMEOUT_MS"),
	}, nil
}

// parseSeedAccounts parses "card=balance,card=balance" pairs.
func parseSeedAccounts(raw string) ([]SeedAccount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("SEED_ACCOUNTS must not be empty")
	}

	parts := strings.Split(raw, ",")
	out := make([]SeedAccount, 0, len(parts))
	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("seed account %q must be card=balance", p)
		}

		card := strings.TrimSpace(kv[0])
		if card == "" {
			return nil, fmt.Errorf("seed account %q has an empty card number", p)
		}

		balance, err := decimal.NewFromString(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("seed account %q has a bad balance: %w", p, err)
		}
		if balance.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("seed account %q has a negative balance", p)
		}

		out = append(out, SeedAccount{CardNumber: card, Balance: balance})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("SEED_ACCOUNTS must define at least one account")
	}

	return out, nil
}
