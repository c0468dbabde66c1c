// Package config loads runtime settings from the environment (and .env,
// loaded by the caller through godotenv).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	AppName     string
	Port        string
	DatabaseURL string
	DB          DBConfig

	JWTSecret string
	// AppKey keys the opaque reference codec (encrypted_id).
	AppKey string

	// StorageRoot is the content directory; images live under
	// StorageRoot/assets/produk and StorageRoot/assets/toko.
	StorageRoot    string
	MaxUploadBytes int64

	AdminUsername string
	AdminPassword string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	TimeZone string
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "Marketplace Toko v1.0")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("APP_KEY", "dev-app-key-change-in-production")
	v.SetDefault("STORAGE_ROOT", "storage/app")
	v.SetDefault("MAX_UPLOAD_KB", 2048)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	return Config{
		AppName:     v.GetString("APP_NAME"),
		Port:        v.GetString("PORT"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Port:     v.GetString("DB_PORT"),
			TimeZone: v.GetString("DB_TIMEZONE"),
		},
		JWTSecret:      v.GetString("JWT_SECRET"),
		AppKey:         v.GetString("APP_KEY"),
		StorageRoot:    v.GetString("STORAGE_ROOT"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_KB") * 1024,
		AdminUsername:  v.GetString("ADMIN_USERNAME"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
	}
}

// DSN returns DATABASE_URL when set, otherwise builds one from DB_*.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port, c.DB.TimeZone,
	)
}
