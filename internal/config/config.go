package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	AdminKey        string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	PersistTimeout  time.Duration `mapstructure:"PERSIST_TIMEOUT"`
	VendorTimeout   time.Duration `mapstructure:"VENDOR_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`

	AgentProfilesPath string `mapstructure:"AGENT_PROFILES_PATH"`
	SchedulingURL     string `mapstructure:"SCHEDULING_URL"`

	TTSURL      string `mapstructure:"TTS_URL"`
	TTSAPIKey   string `mapstructure:"TTS_API_KEY"`
	TTSModel    string `mapstructure:"TTS_MODEL"`
	TTSMaxChars int    `mapstructure:"TTS_MAX_CHARS"`
	TTSCacheMB  int64  `mapstructure:"TTS_CACHE_MB"`

	ConvAIURL    string `mapstructure:"CONVAI_URL"`
	ConvAIAPIKey string `mapstructure:"CONVAI_API_KEY"`

	CRMURL    string `mapstructure:"CRM_URL"`
	CRMAPIKey string `mapstructure:"CRM_API_KEY"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`

	MailboxInsurance string `mapstructure:"MAILBOX_INSURANCE"`
	MailboxBusiness  string `mapstructure:"MAILBOX_BUSINESS"`
	MailboxMusic     string `mapstructure:"MAILBOX_MUSIC"`
	MailboxDefault   string `mapstructure:"MAILBOX_DEFAULT"`

	RedisURL           string `mapstructure:"REDIS_URL"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	FormRateLimit      int    `mapstructure:"FORM_RATE_LIMIT_PER_MINUTE"`

	OTelEnabled     bool   `mapstructure:"OTEL_ENABLED"`
	OTelEndpoint    string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("ADMIN_KEY", "")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("PERSIST_TIMEOUT", "5s")
	v.SetDefault("VENDOR_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 10)

	v.SetDefault("AGENT_PROFILES_PATH", "")
	v.SetDefault("SCHEDULING_URL", "/book")

	v.SetDefault("TTS_URL", "")
	v.SetDefault("TTS_API_KEY", "")
	v.SetDefault("TTS_MODEL", "eleven_multilingual_v2")
	v.SetDefault("TTS_MAX_CHARS", 1000)
	v.SetDefault("TTS_CACHE_MB", 64)

	v.SetDefault("CONVAI_URL", "")
	v.SetDefault("CONVAI_API_KEY", "")
	v.SetDefault("CRM_URL", "")
	v.SetDefault("CRM_API_KEY", "")

	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "no-reply@localhost")

	v.SetDefault("MAILBOX_INSURANCE", "insurance@localhost")
	v.SetDefault("MAILBOX_BUSINESS", "business@localhost")
	v.SetDefault("MAILBOX_MUSIC", "music@localhost")
	v.SetDefault("MAILBOX_DEFAULT", "info@localhost")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("FORM_RATE_LIMIT_PER_MINUTE", 5)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "website-backend")
}
