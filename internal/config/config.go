package config

import (
	"os"
	"strings"
)

// Recognized PROVIDER values.
const (
	ProviderNone     = "none"
	ProviderCloudAPI = "cloud_api"
	ProviderTwilio   = "twilio"
)

// Config holds the application configuration
type Config struct {
	ListenAddr    string
	Provider      string
	CSVPath       string
	DefaultRegion string
	UploadDir     string

	// WhatsApp Cloud API
	WhatsAppPhoneNumberID string
	WhatsAppAccessToken   string
	WhatsAppTemplateName  string
	WhatsAppTemplateLang  string

	// Twilio
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
}

// LoadConfig loads configuration from environment variables or defaults
func LoadConfig() *Config {
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		Provider:      strings.ToLower(getEnv("PROVIDER", ProviderNone)),
		CSVPath:       getEnv("CSV_PATH", "rsvp.csv"),
		DefaultRegion: getEnv("DEFAULT_REGION", "IN"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),

		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppAccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppTemplateName:  getEnv("WHATSAPP_TEMPLATE_NAME", "rsvp_confirmation"),
		WhatsAppTemplateLang:  getEnv("WHATSAPP_TEMPLATE_LANG", "en"),

		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_FROM", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
