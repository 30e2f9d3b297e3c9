// config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type InputConfig struct {
	Dir         string `yaml:"dir"`
	AirportFile string `yaml:"airport_file"`
	NavaidFile  string `yaml:"navaid_file"`
	FixFile     string `yaml:"fix_file"`
	Archive     string `yaml:"archive"` // NASR subscription zip; tables are read from it when set
}

type OutputConfig struct {
	Path     string `yaml:"path"`
	Format   string `yaml:"format"` // "listing" or "json"
	VarName  string `yaml:"var_name"`
	CSVPath  string `yaml:"csv_path"`
	Escape   bool   `yaml:"escape"`
	Dedupe   bool   `yaml:"dedupe"`
	Compress bool   `yaml:"compress"` // also write <path>.zst
}

type FiltersConfig struct {
	States      []string `yaml:"states"`
	StateNames  []string `yaml:"state_names"`
	NavaidTypes []string `yaml:"navaid_types"`
}

type NASRConfig struct {
	SubscriptionPage string        `yaml:"subscription_page"`
	EditionSelector  string        `yaml:"edition_selector"`
	ArchiveSelector  string        `yaml:"archive_selector"`
	DownloadDir      string        `yaml:"download_dir"`
	TimeoutStr       string        `yaml:"timeout"`
	Timeout          time.Duration `yaml:"-"` // Parsed duration
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LoggingConfig struct {
	File       string `yaml:"file"` // empty: stderr only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Filters  FiltersConfig  `yaml:"filters"`
	NASR     NASRConfig     `yaml:"nasr"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

const (
	FormatListing = "listing"
	FormatJSON    = "json"
)

var AppConfig = Default()

// Default returns the configuration used when no file is given: the three
// tables in the working directory, waypoints.json out, western states only.
func Default() Config {
	return Config{
		Input: InputConfig{
			Dir:         ".",
			AirportFile: "APT.txt",
			NavaidFile:  "NAV.txt",
			FixFile:     "FIX.txt",
		},
		Output: OutputConfig{
			Path:    "waypoints.json",
			Format:  FormatListing,
			VarName: "faaWaypoints",
		},
		Filters: FiltersConfig{
			States:      []string{"CA", "ID", "OR", "WA", "NV", "AZ"},
			StateNames:  []string{"CALIFORNIA", "IDAHO", "OREGON", "WASHINGTON", "NEVADA", "ARIZONA"},
			NavaidTypes: []string{"VOR"},
		},
		NASR: NASRConfig{
			SubscriptionPage: "https://www.faa.gov/air_traffic/flight_info/aeronav/aero_data/NASR_Subscription/",
			EditionSelector:  `a[href*="NASR_Subscription/"]`,
			ArchiveSelector:  `a[href$=".zip"]`,
			DownloadDir:      ".",
			TimeoutStr:       "5m",
			Timeout:          5 * time.Minute,
		},
		Database: DatabaseConfig{
			Host:   "localhost",
			Port:   "3306",
			DBName: "faa_waypoints",
		},
		Server: ServerConfig{
			Port: "8080",
		},
		Logging: LoggingConfig{
			MaxSizeMB:  16,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig reads the configuration into AppConfig. An empty configPath
// keeps the defaults; a .env file in the working directory and WAYPOINTS_*
// environment variables are applied on top either way.
func LoadConfig(configPath string) error {
	cfg, err := Load(configPath)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// Load is LoadConfig without touching AppConfig.
func Load(configPath string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		log.Printf("Config: loaded %s\n", configPath)
	}

	if _, err := os.Stat(".env"); err == nil {
		// Existing environment variables win over .env entries.
		if err := godotenv.Load(".env"); err != nil {
			return cfg, fmt.Errorf("failed to load .env: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	// Parse durations
	if cfg.NASR.TimeoutStr != "" {
		d, err := time.ParseDuration(cfg.NASR.TimeoutStr)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse nasr.timeout: %w", err)
		}
		cfg.NASR.Timeout = d
	} else {
		cfg.NASR.Timeout = 5 * time.Minute // Default
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str("WAYPOINTS_INPUT_DIR", &c.Input.Dir)
	str("WAYPOINTS_OUTPUT", &c.Output.Path)
	str("WAYPOINTS_DB_HOST", &c.Database.Host)
	str("WAYPOINTS_DB_PORT", &c.Database.Port)
	str("WAYPOINTS_DB_USER", &c.Database.User)
	str("WAYPOINTS_DB_PASSWORD", &c.Database.Password)
	str("WAYPOINTS_DB_NAME", &c.Database.DBName)
	str("WAYPOINTS_SERVER_PORT", &c.Server.Port)
	str("WAYPOINTS_LOG_FILE", &c.Logging.File)

	if v, ok := os.LookupEnv("WAYPOINTS_DB_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WAYPOINTS_DB_ENABLED %q: %w", v, err)
		}
		c.Database.Enabled = b
	}
	return nil
}

// Validate checks the settings that would otherwise fail late in a run.
func (c Config) Validate() error {
	var errs []error
	if c.Output.Format != FormatListing && c.Output.Format != FormatJSON {
		errs = append(errs, fmt.Errorf("output.format: %q is not %q or %q", c.Output.Format, FormatListing, FormatJSON))
	}
	if c.Output.Path == "" {
		errs = append(errs, errors.New("output.path must be set"))
	}
	if c.Input.Archive == "" && (c.Input.AirportFile == "" || c.Input.NavaidFile == "" || c.Input.FixFile == "") {
		errs = append(errs, errors.New("input: airport_file, navaid_file and fix_file must be set"))
	}
	if c.Database.Enabled && (c.Database.User == "" || c.Database.DBName == "") {
		errs = append(errs, errors.New("database: user and dbname are required when enabled"))
	}
	return errors.Join(errs...)
}

// InputPath resolves one of the table file names against Input.Dir.
func (c Config) InputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Input.Dir, name)
}
