package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/krelv/formpilot/internal/browser"
	"github.com/krelv/formpilot/internal/config"
	"github.com/krelv/formpilot/internal/observability"
	"github.com/krelv/formpilot/internal/recorder"
	"github.com/krelv/formpilot/internal/runner"
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	config.BindEnv(v)

	cmd := &cobra.Command{
		Use:   "formpilot",
		Short: "Fill and submit web forms from a JSON description",
		Long: `formpilot reads a JSON form description, drives a real browser to fill
and submit the form, and can pre-populate {{token}} placeholders either by
scraping a test data generator page or by generating a random person locally.

Example:
  formpilot --config form_config.json --state CA --headless`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", config.DefaultFormConfigFile, "Form config file")
	flags.StringP("test-data-config", "t", config.DefaultTestDataConfigFile, "Test data config file")
	flags.StringP("state", "s", "", "US state code for test data generation (e.g. CA)")
	flags.Bool("headless", false, "Run the browser headless")
	flags.Bool("random", false, "Generate test data locally instead of scraping the generator page")
	flags.Int("timeout", 10, "Element wait timeout in seconds")
	flags.String("screenshot-dir", ".", "Directory for screenshot artifacts")
	flags.String("gif", "", "Record the run as an animated GIF at this path")
	flags.String("log-file", "", "Also write JSON logs to this file (rotated)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.Bool("strict-tokens", false, "Fail on unresolved {{token}} placeholders")

	binds := map[string]string{
		"config_file":           "config",
		"test_data_config_file": "test-data-config",
		"state":                 "state",
		"headless":              "headless",
		"random":                "random",
		"timeout":               "timeout",
		"screenshot_dir":        "screenshot-dir",
		"gif":                   "gif",
		"log_file":              "log-file",
		"log_level":             "log-level",
		"strict_tokens":         "strict-tokens",
	}
	for key, flag := range binds {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

func run(v *viper.Viper) error {
	settings := config.FromViper(v)

	log := observability.New(settings.LogLevel, settings.LogFile)
	defer func() { _ = log.Sync() }()

	form, err := config.LoadFormConfig(settings.ConfigFile)
	if err != nil {
		log.Error("form config rejected", zap.Error(err))
		return err
	}

	var testData *config.TestDataConfig
	if !settings.Random {
		testData, err = config.LoadTestDataConfig(settings.TestDataConfigFile)
		if err != nil {
			// A missing test data config just means the feature is off.
			if !errors.Is(err, fs.ErrNotExist) {
				log.Error("test data config rejected", zap.Error(err))
				return err
			}
			testData = nil
		}
	}

	session, err := browser.Launch(browser.Options{
		Headless:    settings.Headless,
		BrowserPath: settings.BrowserPath,
		Timeout:     settings.Timeout,
		Width:       settings.Width,
		Height:      settings.Height,
		Logger:      log.Named("browser"),
	})
	if err != nil {
		log.Error("browser launch failed", zap.Error(err))
		return err
	}
	defer session.Close()

	r := runner.New(session, settings, form, testData, log.Named("runner"))
	if settings.GIFPath != "" {
		r.SetRecorder(recorder.New(settings.GIFPath))
	}

	if err := r.Run(); err != nil {
		log.Error("run failed",
			zap.String("state", r.State().String()),
			zap.Error(err))
		return err
	}
	log.Info("form automation completed", zap.String("state", r.State().String()))
	return nil
}
