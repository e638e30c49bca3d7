package utils

import (
	"log"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server
	Port     string `yaml:"PORT"`
	LogLevel string `yaml:"LOG_LEVEL"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// Midtrans configuration
	ClientKey string `yaml:"CLIENT_KEY"`
	ServerKey string `yaml:"SERVER_KEY"`
	IsProd    bool   `yaml:"IsProd"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Gemini API configuration
	GeminiAPIKey   string `yaml:"GEMINI_API_KEY"`
	GeminiModel    string `yaml:"GEMINI_MODEL"`
	GeminiProModel string `yaml:"GEMINI_PRO_MODEL"`
}

var (
	config     Config
	configOnce sync.Once
)

var defaults = map[string]string{
	"PORT":             "8080",
	"LOG_LEVEL":        "info",
	"GEMINI_MODEL":     "gemini-2.5-flash",
	"GEMINI_PRO_MODEL": "gemini-2.5-pro",
}

// LoadConfig reads config.yaml (or the file named by CONFIG_PATH) once.
// Environment variables with the same key override the file.
func LoadConfig() {
	configOnce.Do(func() {
		path := os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "config.yaml"
		}

		file, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Error reading YAML file: %s\n", err)
		} else if err := ParseConfig(file); err != nil {
			log.Printf("Error parsing YAML file: %s\n", err)
		}

		applyEnv(&config)
	})
}

// ParseConfig replaces the loaded configuration with the given YAML document.
func ParseConfig(data []byte) error {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return err
	}
	config = c
	return nil
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"PORT":               &c.Port,
		"LOG_LEVEL":          &c.LogLevel,
		"DB_USER":            &c.DBUser,
		"DB_NAME":            &c.DBName,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_PORT":            &c.DBPort,
		"DB_HOST":            &c.DBHost,
		"JWT_SECRET":         &c.JWTSecret,
		"APP_URL":            &c.AppURL,
		"SMTP_HOST":          &c.SMTPHost,
		"SMTP_PORT":          &c.SMTPPort,
		"SMTP_SENDER_NAME":   &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":    &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD": &c.SMTPAuthPassword,
		"CLIENT_KEY":         &c.ClientKey,
		"SERVER_KEY":         &c.ServerKey,
		"AWS_S3_BUCKET":      &c.AWSS3Bucket,
		"AWS_S3_REGION":      &c.AWSS3Region,
		"AWS_ACCESS_KEY":     &c.AWSAccessKey,
		"AWS_SECRET_KEY":     &c.AWSSecretKey,
		"GEMINI_API_KEY":     &c.GeminiAPIKey,
		"GEMINI_MODEL":       &c.GeminiModel,
		"GEMINI_PRO_MODEL":   &c.GeminiProModel,
	}
}

func applyEnv(c *Config) {
	for key, field := range c.fields() {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}
	if v, ok := os.LookupEnv("IS_PROD"); ok {
		c.IsProd, _ = strconv.ParseBool(v)
	}
}

func GetConfig(key string) string {
	if key == "IsProd" || key == "IS_PROD" {
		return strconv.FormatBool(config.IsProd)
	}
	field, ok := config.fields()[key]
	if !ok {
		return ""
	}
	if *field == "" {
		return defaults[key]
	}
	return *field
}

func IsProduction() bool {
	return config.IsProd
}
