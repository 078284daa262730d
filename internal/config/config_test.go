package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Storage: StorageConfig{Driver: StorageMemory},
		Auth: AuthConfig{
			Scheme:          SchemeToken,
			TokenTTL:        time.Hour,
			CleanupInterval: time.Hour,
		},
		Reset:  ResetConfig{TTL: 24 * time.Hour},
		Events: EventsConfig{Broker: BrokerNone},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "jwt without secret", mutate: func(c *Config) { c.Auth.Scheme = SchemeJWT }, wantErr: "JWT_SECRET"},
		{name: "jwt with secret", mutate: func(c *Config) { c.Auth.Scheme = SchemeJWT; c.Auth.JWTSecret = "s" }},
		{name: "unknown scheme", mutate: func(c *Config) { c.Auth.Scheme = "basic" }, wantErr: "AUTH_SCHEME"},
		{name: "postgres without host", mutate: func(c *Config) { c.Storage.Driver = StoragePostgres }, wantErr: "DB_HOST"},
		{name: "mqtt without broker", mutate: func(c *Config) { c.Events.Broker = BrokerMQTT }, wantErr: "MQTT_BROKER"},
		{name: "amqp without url", mutate: func(c *Config) { c.Events.Broker = BrokerAMQP }, wantErr: "AMQP_URL"},
		{name: "zero token ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: "AUTH_TOKEN_TTL"},
		{name: "zero cleanup interval", mutate: func(c *Config) { c.Auth.CleanupInterval = 0 }, wantErr: "AUTH_CLEANUP_INTERVAL"},
		{name: "zero reset ttl", mutate: func(c *Config) { c.Reset.TTL = 0 }, wantErr: "RESET_TOKEN_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "auth", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=auth sslmode=disable", db.DSN())
}
