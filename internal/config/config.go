package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Auth      AuthConfig
	Mail      MailConfig
	Booking   BookingConfig
	Bootstrap BootstrapConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StoreConfig struct {
	Path string
}

type AuthConfig struct {
	TokenSecret string
	// TokenTTLMinutes of zero keeps tokens valid until the client drops them.
	TokenTTLMinutes int
	OTPTTLMinutes   int
}

type MailConfig struct {
	// ResendAPIKey empty switches mail to the logging no-op sender.
	ResendAPIKey string
	From         string
}

type BookingConfig struct {
	// CompletedBlocks keeps completed bookings' slots blocked for rebooking.
	CompletedBlocks bool
}

// BootstrapConfig seeds the store on first run. The admin password is a
// deployment concern: change it before production use.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
	CourtCount    int
	OpeningTime   string
	ClosingTime   string
	SlotMinutes   int
	HourlyRate    float64
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	storePath := os.Getenv("STORE_PATH")
	if storePath == "" {
		storePath = "data/db.json"
	}

	tokenSecret := os.Getenv("TOKEN_SECRET")
	if tokenSecret == "" {
		return nil, fmt.Errorf("%s: missing TOKEN_SECRET", op)
	}

	tokenTTL, err := intEnv("TOKEN_TTL_MINUTES", 0)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	otpTTL, err := intEnv("OTP_TTL_MINUTES", 5)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	mailFrom := os.Getenv("MAIL_FROM")
	if mailFrom == "" {
		mailFrom = "CourtDesk <noreply@courtdesk.local>"
	}

	completedBlocks := os.Getenv("COMPLETED_BLOCKS") == "true"

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "change-me-now"
	}

	courtCount, err := intEnv("DEFAULT_COURT_COUNT", 4)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	openingTime := os.Getenv("OPENING_TIME")
	if openingTime == "" {
		openingTime = "09:00"
	}

	closingTime := os.Getenv("CLOSING_TIME")
	if closingTime == "" {
		closingTime = "21:00"
	}

	slotMinutes, err := intEnv("SLOT_MINUTES", 60)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	hourlyRateStr := os.Getenv("DEFAULT_HOURLY_RATE")
	if hourlyRateStr == "" {
		hourlyRateStr = "20"
	}

	hourlyRate, err := strconv.ParseFloat(hourlyRateStr, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid DEFAULT_HOURLY_RATE: %w", op, err)
	}

	return &Config{
		Server: ServerConfig{
			Host: serverHost,
			Port: serverPort,
		},
		Store: StoreConfig{
			Path: storePath,
		},
		Auth: AuthConfig{
			TokenSecret:     tokenSecret,
			TokenTTLMinutes: tokenTTL,
			OTPTTLMinutes:   otpTTL,
		},
		Mail: MailConfig{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			From:         mailFrom,
		},
		Booking: BookingConfig{
			CompletedBlocks: completedBlocks,
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    adminEmail,
			AdminPassword: adminPassword,
			CourtCount:    courtCount,
			OpeningTime:   openingTime,
			ClosingTime:   closingTime,
			SlotMinutes:   slotMinutes,
			HourlyRate:    hourlyRate,
		},
	}, nil
}

func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
