package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultFormConfigFile     = "form_config.json"
	DefaultTestDataConfigFile = "test_data_config.json"
)

// Settings is the runtime configuration assembled from defaults, environment
// variables and CLI flags, in that order of precedence (flags win).
type Settings struct {
	ConfigFile         string
	TestDataConfigFile string
	State              string
	Headless           bool
	Random             bool
	StrictTokens       bool
	Timeout            time.Duration
	Retries            int
	RetryBackoff       time.Duration
	BrowserPath        string
	ScreenshotDir      string
	GIFPath            string
	LogFile            string
	LogLevel           string
	Width              int
	Height             int
}

// BindEnv registers defaults and environment variable bindings on v. Flag
// bindings happen in the cmd package where the flags live.
func BindEnv(v *viper.Viper) {
	v.SetDefault("config_file", DefaultFormConfigFile)
	v.SetDefault("test_data_config_file", DefaultTestDataConfigFile)
	v.SetDefault("headless", false)
	v.SetDefault("timeout", 10)
	v.SetDefault("retries", 3)
	v.SetDefault("retry_backoff_ms", 500)
	v.SetDefault("screenshot_dir", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("width", 1920)
	v.SetDefault("height", 1080)

	_ = v.BindEnv("config_file", "CONFIG_FILE")
	_ = v.BindEnv("test_data_config_file", "TEST_DATA_CONFIG_FILE")
	_ = v.BindEnv("headless", "HEADLESS")
	_ = v.BindEnv("timeout", "TIMEOUT")
	_ = v.BindEnv("browser_path", "CHROMEDRIVER_PATH")
	_ = v.BindEnv("screenshot_dir", "SCREENSHOT_DIR")
}

// FromViper materializes Settings from a bound viper instance.
func FromViper(v *viper.Viper) *Settings {
	return &Settings{
		ConfigFile:         v.GetString("config_file"),
		TestDataConfigFile: v.GetString("test_data_config_file"),
		State:              v.GetString("state"),
		Headless:           v.GetBool("headless"),
		Random:             v.GetBool("random"),
		StrictTokens:       v.GetBool("strict_tokens"),
		Timeout:            time.Duration(v.GetInt("timeout")) * time.Second,
		Retries:            v.GetInt("retries"),
		RetryBackoff:       time.Duration(v.GetInt("retry_backoff_ms")) * time.Millisecond,
		BrowserPath:        v.GetString("browser_path"),
		ScreenshotDir:      v.GetString("screenshot_dir"),
		GIFPath:            v.GetString("gif"),
		LogFile:            v.GetString("log_file"),
		LogLevel:           v.GetString("log_level"),
		Width:              v.GetInt("width"),
		Height:             v.GetInt("height"),
	}
}
