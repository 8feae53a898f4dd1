package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		v := viper.New()
		setDefaults(v)

		cfg, err := fromViper(v)

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
		assert.Equal(t, 24*time.Hour, cfg.Booking.EditWindow)
		assert.Equal(t, "0.2", cfg.Booking.CompanyFeeRate.String())
		assert.Equal(t, "500", cfg.Booking.DefaultFee.String())
		assert.Len(t, cfg.AI.Models, 4)
		assert.Equal(t, "gemini-2.5-flash", cfg.AI.Models[0])
		assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
		assert.Equal(t, "Asia/Kolkata", cfg.Booking.Location.String())
	})

	t.Run("falls back on unparsable token expiry", func(t *testing.T) {
		v := viper.New()
		setDefaults(v)
		v.Set("JWT_ACCESS_EXPIRY", "soon")

		cfg, err := fromViper(v)

		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	})

	t.Run("rejects an unknown time zone", func(t *testing.T) {
		v := viper.New()
		setDefaults(v)
		v.Set("BOOKING_TIMEZONE", "Mars/Olympus_Mons")

		_, err := fromViper(v)

		assert.Error(t, err)
	})

	t.Run("rejects a bad fee rate", func(t *testing.T) {
		v := viper.New()
		setDefaults(v)
		v.Set("BOOKING_COMPANY_FEE_RATE", "twenty percent")

		_, err := fromViper(v)

		assert.Error(t, err)
	})
}

func TestDBConfigURL(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: "5432", User: "clinic", Password: "p@ss", Name: "clinic", SSLMode: "disable"}

	assert.Equal(t, "pgx5://clinic:p%40ss@db:5432/clinic?sslmode=disable", cfg.URL())
	assert.Contains(t, cfg.DSN(), "dbname=clinic")
}
