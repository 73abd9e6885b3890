package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"
)

// FieldType is the kind of interaction a form field needs.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldDropdown FieldType = "dropdown"
	FieldClick    FieldType = "click"
	FieldFile     FieldType = "file"
)

func (t FieldType) valid() bool {
	switch t {
	case FieldText, FieldDropdown, FieldClick, FieldFile:
		return true
	}
	return false
}

// SelectorType is the element lookup strategy applied to a selector string.
type SelectorType string

const (
	SelectorID    SelectorType = "id"
	SelectorClass SelectorType = "class_name"
	SelectorXPath SelectorType = "xpath"
	SelectorCSS   SelectorType = "css_selector"
	SelectorName  SelectorType = "name"
	SelectorTag   SelectorType = "tag_name"
)

func (t SelectorType) valid() bool {
	switch t {
	case SelectorID, SelectorClass, SelectorXPath, SelectorCSS, SelectorName, SelectorTag:
		return true
	}
	return false
}

// NavType is how a multi-page form moves from one page to the next.
type NavType string

const (
	NavSubmit NavType = "submit"
	NavClick  NavType = "click"
	NavURL    NavType = "url"
)

func (t NavType) valid() bool {
	switch t {
	case NavSubmit, NavClick, NavURL:
		return true
	}
	return false
}

// Locator pairs a selector string with its lookup strategy.
type Locator struct {
	Query string
	Type  SelectorType
}

// CSS compiles the locator to a CSS selector. XPath locators have no CSS form
// and are resolved separately by the browser session.
func (l Locator) CSS() (string, error) {
	switch l.Type {
	case SelectorID:
		return "#" + l.Query, nil
	case SelectorClass:
		return "." + l.Query, nil
	case SelectorName:
		return fmt.Sprintf("[name=%q]", l.Query), nil
	case SelectorTag, SelectorCSS:
		return l.Query, nil
	}
	return "", fmt.Errorf("selector type %q has no CSS form", l.Type)
}

// FieldSpec describes one form field and how to fill it. Value may carry
// {{token}} placeholders; click fields ignore Value entirely.
type FieldSpec struct {
	Type         FieldType    `json:"type"`
	Selector     string       `json:"selector"`
	SelectorType SelectorType `json:"selector_type"`
	Value        string       `json:"value,omitempty"`
}

func (f FieldSpec) Locator() Locator {
	return Locator{Query: f.Selector, Type: f.SelectorType}
}

// ActionSpec points at a single element to interact with, used for submit
// buttons and generator-page controls.
type ActionSpec struct {
	Selector     string       `json:"selector"`
	SelectorType SelectorType `json:"selector_type"`
}

func (a ActionSpec) Locator() Locator {
	return Locator{Query: a.Selector, Type: a.SelectorType}
}

// SubmitSpec is the submit action plus an optional confirmation wait. An
// empty selector makes the runner probe common submit-button patterns.
type SubmitSpec struct {
	ActionSpec
	WaitForConfirmation      bool         `json:"wait_for_confirmation,omitempty"`
	ConfirmationSelector     string       `json:"confirmation_selector,omitempty"`
	ConfirmationSelectorType SelectorType `json:"confirmation_selector_type,omitempty"`
}

// WaitSpec waits for an element to show up, with its own timeout in seconds.
type WaitSpec struct {
	ActionSpec
	Timeout int `json:"timeout,omitempty"`
}

// TimeoutDuration returns the wait timeout, falling back to def when unset.
func (w WaitSpec) TimeoutDuration(def time.Duration) time.Duration {
	if w.Timeout <= 0 {
		return def
	}
	return time.Duration(w.Timeout) * time.Second
}

// NavigationSpec moves a multi-page form to its next page.
type NavigationSpec struct {
	Type           NavType      `json:"type"`
	Selector       string       `json:"selector,omitempty"`
	SelectorType   SelectorType `json:"selector_type,omitempty"`
	URL            string       `json:"url,omitempty"`
	WaitTime       int          `json:"wait_time,omitempty"`
	WaitForElement *WaitSpec    `json:"wait_for_element,omitempty"`
}

func (n NavigationSpec) Locator() Locator {
	return Locator{Query: n.Selector, Type: n.SelectorType}
}

// PageSpec is one page of a multi-page form.
type PageSpec struct {
	Name             string          `json:"name,omitempty"`
	WaitForPageReady *WaitSpec       `json:"wait_for_page_ready,omitempty"`
	Fields           []FieldSpec     `json:"fields,omitempty"`
	Navigation       *NavigationSpec `json:"navigation,omitempty"`
	ContinueOnError  bool            `json:"continue_on_error,omitempty"`
	TakeScreenshot   bool            `json:"take_screenshot,omitempty"`
	ScreenshotName   string          `json:"screenshot_name,omitempty"`
}

// FormConfig is the root form description. Pages takes precedence over the
// flat Fields list when both are present.
type FormConfig struct {
	URL    string      `json:"url"`
	Fields []FieldSpec `json:"fields,omitempty"`
	Submit *SubmitSpec `json:"submit,omitempty"`
	Pages  []PageSpec  `json:"pages,omitempty"`
}

// LoadFormConfig reads and validates a form config document.
func LoadFormConfig(path string) (*FormConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Msg: "cannot read form config", Err: err}
	}
	var cfg FormConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Msg: "invalid JSON", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies defaults and rejects structural problems. Selector strings
// themselves are not checked; a bad selector surfaces later as an
// element-not-found failure.
func (c *FormConfig) Validate() error {
	if c.URL == "" {
		return &ConfigError{Path: "url", Msg: "required"}
	}
	if u, err := url.Parse(c.URL); err != nil || !u.IsAbs() || u.Host == "" {
		return &ConfigError{Path: "url", Msg: fmt.Sprintf("not an absolute URL: %q", c.URL)}
	}
	if len(c.Fields) == 0 && len(c.Pages) == 0 {
		return &ConfigError{Path: "fields", Msg: "at least one field or page required"}
	}
	for i := range c.Fields {
		if err := c.Fields[i].validate(fmt.Sprintf("fields[%d]", i)); err != nil {
			return err
		}
	}
	for i := range c.Pages {
		if err := c.Pages[i].validate(fmt.Sprintf("pages[%d]", i)); err != nil {
			return err
		}
	}
	if c.Submit != nil {
		if err := c.Submit.validate("submit"); err != nil {
			return err
		}
	}
	return nil
}

func (f *FieldSpec) validate(path string) error {
	if f.Type == "" {
		f.Type = FieldText
	}
	if !f.Type.valid() {
		return &ConfigError{Path: path + ".type", Msg: fmt.Sprintf("unknown field type %q", f.Type)}
	}
	if f.Selector == "" {
		return &ConfigError{Path: path + ".selector", Msg: "required"}
	}
	if f.SelectorType == "" {
		f.SelectorType = SelectorID
	}
	if !f.SelectorType.valid() {
		return &ConfigError{Path: path + ".selector_type", Msg: fmt.Sprintf("unknown selector type %q", f.SelectorType)}
	}
	return nil
}

func (a *ActionSpec) validate(path string) error {
	if a.SelectorType == "" {
		a.SelectorType = SelectorID
	}
	if !a.SelectorType.valid() {
		return &ConfigError{Path: path + ".selector_type", Msg: fmt.Sprintf("unknown selector type %q", a.SelectorType)}
	}
	return nil
}

func (s *SubmitSpec) validate(path string) error {
	if err := s.ActionSpec.validate(path); err != nil {
		return err
	}
	if s.ConfirmationSelectorType == "" {
		s.ConfirmationSelectorType = SelectorID
	}
	if !s.ConfirmationSelectorType.valid() {
		return &ConfigError{Path: path + ".confirmation_selector_type", Msg: fmt.Sprintf("unknown selector type %q", s.ConfirmationSelectorType)}
	}
	return nil
}

func (w *WaitSpec) validate(path string) error {
	if w.Selector == "" {
		return &ConfigError{Path: path + ".selector", Msg: "required"}
	}
	return w.ActionSpec.validate(path)
}

func (p *PageSpec) validate(path string) error {
	if p.WaitForPageReady != nil {
		if err := p.WaitForPageReady.validate(path + ".wait_for_page_ready"); err != nil {
			return err
		}
	}
	for i := range p.Fields {
		if err := p.Fields[i].validate(fmt.Sprintf("%s.fields[%d]", path, i)); err != nil {
			return err
		}
	}
	if p.Navigation != nil {
		if err := p.Navigation.validate(path + ".navigation"); err != nil {
			return err
		}
	}
	return nil
}

func (n *NavigationSpec) validate(path string) error {
	if n.Type == "" {
		n.Type = NavSubmit
	}
	if !n.Type.valid() {
		return &ConfigError{Path: path + ".type", Msg: fmt.Sprintf("unknown navigation type %q", n.Type)}
	}
	if n.Type == NavURL {
		if n.URL == "" {
			return &ConfigError{Path: path + ".url", Msg: "required for url navigation"}
		}
		return nil
	}
	if n.SelectorType == "" {
		n.SelectorType = SelectorID
	}
	if !n.SelectorType.valid() {
		return &ConfigError{Path: path + ".selector_type", Msg: fmt.Sprintf("unknown selector type %q", n.SelectorType)}
	}
	if n.WaitForElement != nil {
		return n.WaitForElement.validate(path + ".wait_for_element")
	}
	return nil
}
