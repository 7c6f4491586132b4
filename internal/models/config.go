package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the connection string understood by pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type Config struct {
	StoreBackend string         `mapstructure:"store_backend"` // "file" or "postgres"
	StatePath    string         `mapstructure:"state_path"`
	Database     DatabaseConfig `mapstructure:"database"`

	OutputFormat     string             `mapstructure:"output_format"` // console, json, csv, kafka, parquet, postgres, none
	OutputPath       string             `mapstructure:"output_path"`
	OutputFolder     string             `mapstructure:"output_folder"`
	KafkaBrokerList  string             `mapstructure:"kafka_broker_list"`
	KafkaTopicPrefix string             `mapstructure:"kafka_topic_prefix"`
	SessionTimeoutMs int                `mapstructure:"session_timeout_ms"`
	CloudStorage     CloudStorageConfig `mapstructure:"cloud_storage"`
	PublishSnapshots bool               `mapstructure:"publish_snapshots"`

	InitialTables        int    `mapstructure:"initial_tables"`
	DefaultOrderType     string `mapstructure:"default_order_type"`
	DefaultPaymentMethod string `mapstructure:"default_payment_method"`

	HTTPPort        string        `mapstructure:"http_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	Seed int64 `mapstructure:"seed"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store_backend", "file")
	v.SetDefault("state_path", "tablepos-state.json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "tablepos")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("output_format", "console")
	v.SetDefault("output_path", "output")
	v.SetDefault("output_folder", "events")
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("kafka_topic_prefix", "tablepos.")
	v.SetDefault("session_timeout_ms", 10000)
	v.SetDefault("cloud_storage.provider", "")
	v.SetDefault("cloud_storage.region", "us-east-1")
	v.SetDefault("publish_snapshots", false)
	v.SetDefault("initial_tables", 5)
	v.SetDefault("default_order_type", OrderTypeDineIn)
	v.SetDefault("default_payment_method", PaymentMethodCash)
	v.SetDefault("http_port", "8080")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("seed", 42)
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// default config file is not an error; a missing explicit one is.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.tablepos")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("tablepos")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (cfg *Config) Validate() error {
	switch cfg.StoreBackend {
	case "file", "postgres":
	default:
		return fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
	switch cfg.OutputFormat {
	case "console", "json", "csv", "kafka", "parquet", "postgres", "none":
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	}
	switch cfg.CloudStorage.Provider {
	case "", "s3":
	default:
		return fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
	}
	if cfg.InitialTables < 0 {
		return fmt.Errorf("initial_tables must not be negative, got %d", cfg.InitialTables)
	}
	return nil
}
