package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	FrontendURL       string `mapstructure:"FRONTEND_URL"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Tokens.
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	JWTExpiryMinutes int    `mapstructure:"JWT_EXPIRY_MINUTES"`

	// Google sign-in.
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	OAuthRedirectURI   string `mapstructure:"OAUTH_REDIRECT_URI"`

	// Third-party services.
	GeminiAPIKey             string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel              string `mapstructure:"GEMINI_MODEL"`
	CloudinaryCloudName      string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey         string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret      string `mapstructure:"CLOUDINARY_API_SECRET"`
	PaymentProvider          string `mapstructure:"PAYMENT_PROVIDER"`
	StripeKey                string `mapstructure:"STRIPE_KEY"`
	FirebaseCredentials      string `mapstructure:"FIREBASE_CREDENTIALS"`
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	CoinGeckoURL             string `mapstructure:"COINGECKO_URL"`
	OSRMURL                  string `mapstructure:"OSRM_URL"`

	// Blockchain.
	BlockchainEnabled  bool   `mapstructure:"BLOCKCHAIN_ENABLED"`
	BlockchainRPCURL   string `mapstructure:"BLOCKCHAIN_RPC_URL"`
	ContractAddress    string `mapstructure:"CONTRACT_ADDRESS"`
	PlatformPrivateKey string `mapstructure:"PLATFORM_PRIVATE_KEY"`
	ChainID            int64  `mapstructure:"CHAIN_ID"`

	// Host onboarding.
	HostAutoApprove bool `mapstructure:"HOST_AUTO_APPROVE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("CORS_ORIGINS", "https://mayhouse-frontend.vercel.app,http://localhost:3000,http://127.0.0.1:3000")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "mayhouse")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRY_MINUTES", 7*24*60)
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("PAYMENT_PROVIDER", "dummy")
	viper.SetDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3/simple/price")
	viper.SetDefault("OSRM_URL", "https://router.project-osrm.org")
	viper.SetDefault("BLOCKCHAIN_ENABLED", false)
	viper.SetDefault("CHAIN_ID", 11155111)
	viper.SetDefault("HOST_AUTO_APPROVE", true)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AllowedOrigins splits CORS_ORIGINS into a list.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(AppConfig.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
