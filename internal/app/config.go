package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type GSheetConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	SpreadsheetID   string `toml:"spreadsheet_id"`
	SheetName       string `toml:"sheet_name"`
	Schedule        string `toml:"schedule"`
}

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL        string `toml:"redis_url"`
		TokenHeader     string `toml:"token_header"`
		SessionTTLHours int    `toml:"session_ttl_hours"`
	} `toml:"auth"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Attendance struct {
		StrictDefault     bool `toml:"strict_default"`
		ScanNoticeSeconds int  `toml:"scan_notice_seconds"`
	} `toml:"attendance"`

	AI struct {
		Enabled bool   `toml:"enabled"`
		Model   string `toml:"model"`
		Subject string `toml:"subject"`
	} `toml:"ai"`

	GSheet []GSheetConfig `toml:"gsheet"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Attendance.ScanNoticeSeconds <= 0 {
		config.Attendance.ScanNoticeSeconds = 3
	}
	if config.Auth.SessionTTLHours <= 0 {
		config.Auth.SessionTTLHours = 24
	}
	if config.AI.Model == "" {
		config.AI.Model = "gemini-2.5-flash"
	}
	if config.Server.EnableAuth && config.Auth.TokenHeader == "" {
		config.Auth.TokenHeader = "Authorization"
	}

	logger.Debug.Printf("Loaded attendance config: %+v", config.Attendance)

	return &config, nil
}
