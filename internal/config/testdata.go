package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// TestDataConfig is the root of the test-data generator description.
type TestDataConfig struct {
	TestDataGeneration TestDataGeneration `json:"test_data_generation"`
}

// TestDataGeneration drives the scrape of a generator page: pick a state,
// click generate, read the produced values back into tokens.
type TestDataGeneration struct {
	Enabled               bool                  `json:"enabled"`
	URL                   string                `json:"url,omitempty"`
	DismissCookieBanner   *bool                 `json:"dismiss_cookie_banner,omitempty"`
	CookieBannerConfig    *ActionSpec           `json:"cookie_banner_config,omitempty"`
	StateDropdown         ActionSpec            `json:"state_dropdown,omitempty"`
	GenerateButton        ActionSpec            `json:"generate_button,omitempty"`
	WaitTimeAfterGenerate int                   `json:"wait_time_after_generate,omitempty"`
	WaitForGeneration     *WaitSpec             `json:"wait_for_generation,omitempty"`
	OutputFields          map[string]ActionSpec `json:"output_fields,omitempty"`
}

// DismissBanner reports whether the cookie banner should be dismissed.
// Defaults to true when the config leaves it unset.
func (g *TestDataGeneration) DismissBanner() bool {
	return g.DismissCookieBanner == nil || *g.DismissCookieBanner
}

// LoadTestDataConfig reads and validates a test-data config document. A
// missing file surfaces as a ConfigError wrapping fs.ErrNotExist so callers
// can treat it as "feature off".
func LoadTestDataConfig(path string) (*TestDataConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Msg: "cannot read test data config", Err: err}
	}
	var cfg TestDataConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Msg: "invalid JSON", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the generation block. Disabled configs are accepted as-is.
func (c *TestDataConfig) Validate() error {
	g := &c.TestDataGeneration
	if !g.Enabled {
		return nil
	}
	if g.URL == "" {
		return &ConfigError{Path: "test_data_generation.url", Msg: "required"}
	}
	if u, err := url.Parse(g.URL); err != nil || !u.IsAbs() || u.Host == "" {
		return &ConfigError{Path: "test_data_generation.url", Msg: fmt.Sprintf("not an absolute URL: %q", g.URL)}
	}
	if g.StateDropdown.Selector == "" {
		return &ConfigError{Path: "test_data_generation.state_dropdown.selector", Msg: "required"}
	}
	if err := g.StateDropdown.validate("test_data_generation.state_dropdown"); err != nil {
		return err
	}
	if g.GenerateButton.Selector == "" {
		return &ConfigError{Path: "test_data_generation.generate_button.selector", Msg: "required"}
	}
	if err := g.GenerateButton.validate("test_data_generation.generate_button"); err != nil {
		return err
	}
	if g.CookieBannerConfig != nil {
		if err := g.CookieBannerConfig.validate("test_data_generation.cookie_banner_config"); err != nil {
			return err
		}
	}
	if g.WaitForGeneration != nil {
		if err := g.WaitForGeneration.validate("test_data_generation.wait_for_generation"); err != nil {
			return err
		}
	}
	for name := range g.OutputFields {
		spec := g.OutputFields[name]
		if spec.Selector == "" {
			return &ConfigError{Path: "test_data_generation.output_fields." + name + ".selector", Msg: "required"}
		}
		if err := spec.validate("test_data_generation.output_fields." + name); err != nil {
			return err
		}
		g.OutputFields[name] = spec
	}
	return nil
}
