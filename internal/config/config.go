package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration for the outreach service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Sheet     SheetConfig     `mapstructure:"sheet"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	Publisher PublisherConfig `mapstructure:"publisher"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres
	Path            string        `mapstructure:"path"`   // sqlite file path
	DSN             string        `mapstructure:"dsn"`    // postgres DSN
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SheetConfig describes the spreadsheet used as the job queue.
type SheetConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	SpreadsheetID string        `mapstructure:"spreadsheet_id"`
	APIToken      string        `mapstructure:"api_token"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type AnalyzerConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxBodyKB int           `mapstructure:"max_body_kb"`
	UserAgent string        `mapstructure:"user_agent"`
}

// PublisherConfig controls branch creation and preview URL resolution.
type PublisherConfig struct {
	RepoAPIBase   string        `mapstructure:"repo_api_base"`
	RepoToken     string        `mapstructure:"repo_token"`
	Owner         string        `mapstructure:"owner"`
	ProjectPrefix string        `mapstructure:"project_prefix"`
	PreviewDomain string        `mapstructure:"preview_domain"`
	BranchPrefix  string        `mapstructure:"branch_prefix"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	PollAttempts  int           `mapstructure:"poll_attempts"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type NotifierConfig struct {
	SenderName      string `mapstructure:"sender_name"`
	ExportKeyPrefix string `mapstructure:"export_key_prefix"`
}

type PipelineConfig struct {
	StageTimeout time.Duration `mapstructure:"stage_timeout"`
	NotesMaxLen  int           `mapstructure:"notes_max_len"`
	BatchMax     int           `mapstructure:"batch_max"`
}

// Load reads configuration from the given file path, falling back to
// ./configs/config.yaml and finally to defaults plus environment
// variables.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("sheet.spreadsheet_id", "SHEET_SPREADSHEET_ID")
	v.BindEnv("sheet.api_token", "SHEET_API_TOKEN")
	v.BindEnv("publisher.repo_token", "GITHUB_TOKEN")
	v.BindEnv("publisher.owner", "GITHUB_OWNER")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.bucket", "STORAGE_BUCKET")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	v.BindEnv("database.dsn", "DATABASE_DSN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/outreach.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("sheet.base_url", "https://sheets.googleapis.com/v4/spreadsheets")
	v.SetDefault("sheet.timeout", 30*time.Second)

	v.SetDefault("analyzer.timeout", 30*time.Second)
	v.SetDefault("analyzer.max_body_kb", 2048)
	v.SetDefault("analyzer.user_agent", "WebAgencyOutreach/1.0")

	v.SetDefault("publisher.repo_api_base", "https://api.github.com")
	v.SetDefault("publisher.project_prefix", "web-agency-outreach")
	v.SetDefault("publisher.preview_domain", "vercel.app")
	v.SetDefault("publisher.branch_prefix", "feature/")
	v.SetDefault("publisher.poll_interval", 10*time.Second)
	v.SetDefault("publisher.poll_attempts", 6)
	v.SetDefault("publisher.timeout", 30*time.Second)

	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "outreach-previews")

	v.SetDefault("notifier.sender_name", "Eric")
	v.SetDefault("notifier.export_key_prefix", "exports")

	v.SetDefault("pipeline.stage_timeout", 2*time.Minute)
	v.SetDefault("pipeline.notes_max_len", 200)
	v.SetDefault("pipeline.batch_max", 25)
}
