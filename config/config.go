package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment. Loaded once
// in main and passed down; nothing else touches os.Getenv.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string
	FrontendURL string
	BaseURL     string

	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string

	LineLoginChannelID     string
	LineLoginChannelSecret string
	LineMessagingToken     string

	OTPTTL time.Duration

	// StaffEditAnyStatus lets staff and admin edit bookings that are no
	// longer pending. Off by default.
	StaffEditAnyStatus bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found. Using environment variables directly.")
	}

	return &Config{
		Addr:        getenv("ADDR", ":8000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:   getenv("JWT_SECRET", "solid_secret_key"),
		FrontendURL: getenv("FRONTEND_URL", "http://localhost:5173"),
		BaseURL:     getenv("BASE_URL", "http://localhost:8000"),

		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  getint("SMTP_PORT", 587),
		EmailUser: os.Getenv("EMAIL_USER"),
		EmailPass: os.Getenv("EMAIL_PASS"),

		LineLoginChannelID:     os.Getenv("LINE_LOGIN_CHANNEL_ID"),
		LineLoginChannelSecret: os.Getenv("LINE_LOGIN_CHANNEL_SECRET"),
		LineMessagingToken:     os.Getenv("LINE_MESSAGING_ACCESS_TOKEN"),

		OTPTTL: time.Duration(getint("OTP_TTL_MINUTES", 15)) * time.Minute,

		StaffEditAnyStatus: getbool("STAFF_EDIT_ANY_STATUS", false),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}
