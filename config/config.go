package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Mail    MailConfig
	AI      AIConfig
	Booking BookingConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// MailConfig holds SMTP settings. An empty Host disables outgoing mail.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type AIConfig struct {
	APIKey          string
	BaseURL         string
	Models          []string
	Timeout         time.Duration
	RateLimitPerMin int
}

type BookingConfig struct {
	EditWindow     time.Duration
	CompanyFeeRate decimal.Decimal
	DefaultFee     decimal.Decimal
	// Location is the clinic's wall clock; appointment dates and times are
	// interpreted in it.
	Location *time.Location
}

// LoadConfig reads .env when it exists, then the process environment.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_LOG_LEVEL", "info")
	v.SetDefault("APP_CORS_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRY", "168h")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("AI_MODELS", "gemini-2.5-flash,gemini-2.0-flash-001,gemini-2.0-flash-lite-001,gemini-flash-latest")
	v.SetDefault("AI_TIMEOUT", "30s")
	v.SetDefault("AI_RATE_LIMIT_PER_MIN", 20)
	v.SetDefault("BOOKING_EDIT_WINDOW", "24h")
	v.SetDefault("BOOKING_COMPANY_FEE_RATE", "0.20")
	v.SetDefault("BOOKING_DEFAULT_FEE", "500.00")
	v.SetDefault("BOOKING_TIMEZONE", "Asia/Kolkata")
}

func fromViper(v *viper.Viper) (*Config, error) {
	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(v.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	aiTimeout, err := time.ParseDuration(v.GetString("AI_TIMEOUT"))
	if err != nil {
		aiTimeout = 30 * time.Second
	}

	editWindow, err := time.ParseDuration(v.GetString("BOOKING_EDIT_WINDOW"))
	if err != nil {
		return nil, err
	}

	feeRate, err := decimal.NewFromString(v.GetString("BOOKING_COMPANY_FEE_RATE"))
	if err != nil {
		return nil, err
	}

	defaultFee, err := decimal.NewFromString(v.GetString("BOOKING_DEFAULT_FEE"))
	if err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(v.GetString("BOOKING_TIMEZONE"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("APP_LOG_LEVEL"),
			CORSOrigins: splitList(v.GetString("APP_CORS_ORIGINS")),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			TimeZone: v.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Mail: MailConfig{
			Host:     v.GetString("MAIL_HOST"),
			Port:     v.GetInt("MAIL_PORT"),
			Username: v.GetString("MAIL_USERNAME"),
			Password: v.GetString("MAIL_PASSWORD"),
			From:     v.GetString("MAIL_FROM"),
		},
		AI: AIConfig{
			APIKey:          v.GetString("AI_API_KEY"),
			BaseURL:         v.GetString("AI_BASE_URL"),
			Models:          splitList(v.GetString("AI_MODELS")),
			Timeout:         aiTimeout,
			RateLimitPerMin: v.GetInt("AI_RATE_LIMIT_PER_MIN"),
		},
		Booking: BookingConfig{
			EditWindow:     editWindow,
			CompanyFeeRate: feeRate,
			DefaultFee:     defaultFee,
			Location:       location,
		},
	}

	return config, nil
}

// DSN builds the key/value connection string used by gorm.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

// URL builds the pgx5:// URL expected by golang-migrate.
func (c DBConfig) URL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
