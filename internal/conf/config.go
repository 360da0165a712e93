// config.go: settings struct and loading for the firewatch application.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configFiles embed.FS

// LogConfig defines the configuration for a log file.
type LogConfig struct {
	Enabled bool   // true to enable this log
	Path    string // path to the log file
}

// WindowConfig is a half-open local-hour interval [Start, End).
type WindowConfig struct {
	Start int // first local hour inside the window
	End   int // first local hour outside the window
}

// FIRMSSettings contains settings for the NASA FIRMS area API.
type FIRMSSettings struct {
	APIKey   string   // FIRMS map key
	Endpoint string   // area CSV endpoint base URL
	Sensors  []string // sensor sources in merge/tie-break order
}

// GISTDASettings contains settings for the GISTDA disaster-hotspot API.
type GISTDASettings struct {
	APIKey   string // GISTDA Sphere API key
	Endpoint string // disaster-hotspot endpoint URL
}

// FeedSettings selects and configures the upstream hotspot feed.
type FeedSettings struct {
	Provider     string // "firms" or "gistda"
	LookbackDays int    // multi-day lookback so the night pass survives the UTC date boundary
	Timeout      int    // per-fetch timeout in seconds
	FIRMS        FIRMSSettings
	GISTDA       GISTDASettings
}

// RegionSettings names the monitored administrative area.
type RegionSettings struct {
	Province  string   // province name used in alerts
	Districts []string // monitored district names
}

// PassSettings configures satellite pass windows and the local timezone.
type PassSettings struct {
	Timezone  string       // IANA timezone of the monitored region
	Night     WindowConfig // night overpass window, local hours
	Afternoon WindowConfig // afternoon overpass window, local hours
	Enforce   bool         // true to skip scheduled polls outside pass windows
}

// StoreSettings configures novelty-state persistence.
type StoreSettings struct {
	Type string // "memory" or "sqlite"
	Path string // sqlite database path
}

// NotifySettings configures push notification delivery.
type NotifySettings struct {
	Enabled            bool
	URLs               []string // shoutrrr delivery URLs
	Timeout            int      // delivery timeout in seconds
	OnEmpty            bool     // also send a status message when no new hotspots are found
	MaxCoordinateLines int      // max detections listed in the coordinates message
	ColdStart          bool     // true to alert on the very first poll after startup
}

// MonitorSettings configures the continuous monitor mode.
type MonitorSettings struct {
	Interval int    // minutes between polls
	Listen   string // HTTP API listen address
	Log      LogConfig
}

// Settings contains all application configuration.
type Settings struct {
	Debug bool // true to enable debug logging

	Main struct {
		Name string    // node name for logs and alerts
		Log  LogConfig // main application log
	}

	Monitor MonitorSettings
	Feed    FeedSettings
	Region  RegionSettings
	Pass    PassSettings
	Store   StoreSettings
	Notify  NotifySettings
}

// Location resolves the configured timezone, falling back to a fixed UTC+7
// zone when the tzdata lookup fails.
func (s *Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Pass.Timezone)
	if err != nil {
		return time.FixedZone("UTC+7", 7*60*60)
	}
	return loc
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Setting returns the current settings instance, loading it on first use.
func Setting() *Settings {
	settingsMutex.RLock()
	if settingsInstance != nil {
		defer settingsMutex.RUnlock()
		return settingsInstance
	}
	settingsMutex.RUnlock()

	settings, err := Load()
	if err != nil {
		return nil
	}
	return settings
}

// Load reads the configuration file and environment variables into a
// Settings struct and installs it as the active instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

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

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with defaults, config file and env bindings.
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

	setDefaultConfig()

	viper.SetEnvPrefix("firewatch")
	viper.AutomaticEnv()
	bindEnvVars()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// First run: materialize the embedded default config file.
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded default config to the user config
// directory and points viper at it.
func createDefaultConfig() error {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// No config home to write to; defaults plus env are enough to run.
		return nil
	}
	configPath := filepath.Join(configDir, "firewatch-go", "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(getDefaultConfig()), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig returns the embedded default configuration file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("error reading embedded config file: %v", err)
	}
	return string(data)
}

// bindEnvVars maps secrets and deploy-specific values to env variables.
func bindEnvVars() {
	bindings := map[string]string{
		"feed.firms.apikey":  "FIREWATCH_FIRMS_MAP_KEY",
		"feed.gistda.apikey": "FIREWATCH_GISTDA_API_KEY",
		"notify.urls":        "FIREWATCH_NOTIFY_URLS",
		"store.path":         "FIREWATCH_STORE_PATH",
	}
	for key, env := range bindings {
		_ = viper.BindEnv(key, env)
	}
}

// GetDefaultConfigPaths returns the configuration search paths: working
// directory, the user config directory and the executable directory.
func GetDefaultConfigPaths() ([]string, error) {
	paths := []string{"."}

	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "firewatch-go"))
	}

	if exePath, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Dir(exePath))
	}

	return paths, nil
}

// SaveAs writes the current settings to the given path as YAML.
func (s *Settings) SaveAs(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("error marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing settings to %s: %w", path, err)
	}
	return nil
}
