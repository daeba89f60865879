// config.go: settings struct and loading for the habitwheel application.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/habitwheel/internal/errors"
)

// WebServerSettings contains settings for the HTTP server.
type WebServerSettings struct {
	Enabled bool   // true to enable the web server
	Host    string // listen address
	Port    string // listen port
	Debug   bool   // true to enable debug logging for the web server
}

// SQLiteSettings contains settings for the SQLite database backend.
type SQLiteSettings struct {
	Enabled bool   // true to use SQLite
	Path    string // path to the database file
}

// MySQLSettings contains settings for the MySQL database backend.
type MySQLSettings struct {
	Enabled  bool   // true to use MySQL
	Username string // MySQL username
	Password string // MySQL password
	Host     string // MySQL host
	Port     string // MySQL port
	Database string // MySQL database name
}

// OutputSettings groups the database backends. Exactly one must be enabled.
type OutputSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// TrackingSettings contains the application-level defaults for habit tracking.
// These seed the persisted settings row on first start; the persisted row is
// what the settings API reads and writes afterwards.
type TrackingSettings struct {
	RoundLengthWeeks int    // default round length, 4 or 8
	WeekStartsOn     int    // 0 = Sunday ... 6 = Saturday
	Timezone         string // IANA timezone name used for calendar-day math
	WeightUnit       string // LBS or KG
}

// Settings contains all runtime configuration, loaded once at process start
// and passed explicitly to the components that need it.
type Settings struct {
	Debug bool // true to enable debug mode

	Main struct {
		Name string // name of this node, also used as the HTTP server banner
	}

	WebServer WebServerSettings
	Output    OutputSettings
	Tracking  TrackingSettings

	Version   string `yaml:"-"` // build version, set at link time
	BuildDate string `yaml:"-"` // build date, set at link time
}

// Load reads the configuration file and returns the populated settings.
func Load() (*Settings, error) {
	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Defaults defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the current defaults as a starting config file.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	defaultConfig, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("error marshaling default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// GetDefaultConfigPaths returns the OS specific config file search paths.
// When an existing config.yaml is found, only its directory is returned.
func GetDefaultConfigPaths() ([]string, error) {
	var configPaths []string

	exePath, err := os.Executable()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-executable-path").
			Build()
	}
	exeDir := filepath.Dir(exePath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}

	switch runtime.GOOS {
	case "windows":
		configPaths = []string{
			exeDir,
			filepath.Join(homeDir, "AppData", "Roaming", "habitwheel"),
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "habitwheel"),
			"/etc/habitwheel",
		}
	}

	// Prefer the path that already holds a config file
	for _, path := range configPaths {
		configFile := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFile); err == nil {
			return []string{path}, nil
		}
	}

	return configPaths, nil
}
