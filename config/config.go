package config

import (
	"time"

	"github.com/Gobusters/ectoenv"
)

// Config holds corpmatch's runtime configuration, loaded from the
// environment via ectoenv's reflective struct tags.
type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"corpmatch-api"`
	Port                          int      `env:"PORT" env-default:"3002"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	TLSMinVersion                 string   `env:"HTTP_SERVER_TLS_MIN_VERSION" env-default:"TLS_1_2"`
	TLSMaxVersion                 string   `env:"HTTP_SERVER_TLS_MAX_VERSION" env-default:"TLS_1_2"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Catalog resource paths (legal forms, replacements, city and title lists).
	LegalFormsPath             string `env:"LEGAL_FORMS_PATH" env-default:"resources/legal_forms.json"`
	LegalFormReplacementsPath  string `env:"LEGAL_FORM_REPLACEMENTS_PATH" env-default:"resources/legal_form_replacements.csv"`
	AdditionLegalFormsPath     string `env:"ADDITION_LEGAL_FORMS_PATH" env-default:"resources/addition_legal_forms.txt"`
	CityMappingsPath           string `env:"CITY_MAPPINGS_PATH" env-default:"resources/cityMappings.txt"`
	NobilityTitlesPath         string `env:"NOBILITY_TITLES_PATH" env-default:"resources/nobility-titles.txt"`
	TitlesPath                 string `env:"TITLES_PATH" env-default:"resources/titles.txt"`
	DefaultCountryCode         string `env:"DEFAULT_COUNTRY_CODE" env-default:"DE"`

	// Duplicate finder tuning.
	DedupWorkerCount        int     `env:"DEDUP_WORKER_COUNT" env-default:"8"`
	DedupBlockSizeWarning   int     `env:"DEDUP_BLOCK_SIZE_WARNING" env-default:"5000"`
	DedupScoreThreshold     float64 `env:"DEDUP_SCORE_THRESHOLD" env-default:"0.85"`

	// PostgreSQL (optional audit store for emitted MatchResults).
	AuditStoreEnabled             bool          `env:"AUDIT_STORE_ENABLED" env-default:"false"`
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"corpmatch"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseReconnectRetryCount   int           `env:"DB_RECONNECT_RETRY_COUNT" env-default:"3"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Kafka ingestion (optional streaming company-name source).
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"false"`
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaInputTopic      string   `env:"KAFKA_INPUT_TOPIC" env-default:"company-names"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"corpmatch-consumer"`

	// Kafka producer (duplicate-found notifications).
	KafkaOutputTopic  string `env:"KAFKA_OUTPUT_TOPIC" env-default:"company-name-duplicates"`
	KafkaBatchSize    int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string `env:"KAFKA_COMPRESSION" env-default:"snappy"`
}

// Load reads Config from the process environment, applying env-default
// values for anything unset.
func Load() (*Config, error) {
	var cfg Config
	if err := ectoenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
