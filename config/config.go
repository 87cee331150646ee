package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Upsert guard modes
const (
	GuardScan        = "scan"
	GuardConditional = "conditional"
)

// Store backends
const (
	BackendDynamo = "dynamodb"
	BackendSQLite = "sqlite"
)

// Config holds runtime configuration for the RSVP server.
type Config struct {
	Port           string        `env:"PORT,default=8080"`
	PublicBaseURL  string        `env:"PUBLIC_BASE_URL"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS,default=*"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	RateLimit      int           `env:"RATE_LIMIT_PER_MINUTE,default=120"`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
	LogFormat      string        `env:"LOG_FORMAT,default=console"`

	StoreBackend string `env:"STORE_BACKEND,default=dynamodb"`
	UpsertGuard  string `env:"RSVP_UPSERT_GUARD,default=scan"`
	SQLitePath   string `env:"SQLITE_PATH,default=data/rsvp.db"`

	AWSRegion         string `env:"AWS_REGION"`
	DynamoEndpoint    string `env:"DYNAMODB_ENDPOINT"`
	PartiesTable      string `env:"PARTIES_TABLE,default=Parties"`
	ResponsesTable    string `env:"RESPONSES_TABLE,default=PartyResponses"`
	ResponseKeysTable string `env:"RESPONSE_KEYS_TABLE,default=PartyResponseKeys"`

	ExportBucket    string        `env:"S3_EXPORT_BUCKET"`
	PresignTTL      time.Duration `env:"S3_PRESIGN_TTL,default=15m"`
	ExportTimezone  string        `env:"EXPORT_TIMEZONE,default=Local"`
	RedisURL        string        `env:"REDIS_URL"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelServiceName string        `env:"OTEL_SERVICE_NAME,default=rsvp-server"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFrom is Load against an explicit lookuper, used by tests.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ExportLocation resolves the time zone used for the CSV "Submitted At" column.
func (c Config) ExportLocation() (*time.Location, error) {
	if c.ExportTimezone == "" || c.ExportTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.ExportTimezone)
}
