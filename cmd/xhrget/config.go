package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kbukum/xhrkit/config"
	"github.com/kbukum/xhrkit/httpclient"
	"github.com/kbukum/xhrkit/observability"
	"github.com/kbukum/xhrkit/validation"
	"github.com/kbukum/xhrkit/version"
)

const (
	serviceName = "xhrget"
	defaultWait = 60 * time.Second
)

// Config is the xhrget configuration file layout.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP      httpclient.Config    `yaml:"http" mapstructure:"http"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
	Request   RequestConfig        `yaml:"request" mapstructure:"request"`
}

// RequestConfig describes the single request xhrget performs.
type RequestConfig struct {
	Method  string            `yaml:"method" mapstructure:"method" validate:"required"`
	URL     string            `yaml:"url" mapstructure:"url" validate:"required"`
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	Body    string            `yaml:"body" mapstructure:"body"`
	// Wait bounds how long xhrget waits for the done state.
	Wait   time.Duration `yaml:"wait" mapstructure:"wait" validate:"gt=0"`
	Events bool          `yaml:"events" mapstructure:"events"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	c.Telemetry.ApplyDefaults()

	if c.Request.Method == "" {
		c.Request.Method = "GET"
	}
	if c.Request.Wait == 0 {
		c.Request.Wait = defaultWait
	}
	if c.Request.Headers == nil {
		c.Request.Headers = make(map[string]string)
	}
	if c.HTTP.Headers == nil {
		c.HTTP.Headers = make(map[string]string)
	}
	if !hasHeader(c.HTTP.Headers, "User-Agent") {
		c.HTTP.Headers["User-Agent"] = version.UserAgent(serviceName)
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := validation.Validate(&c.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if err := validation.Validate(&c.Request); err != nil {
		return fmt.Errorf("request: %w", err)
	}

	v := validation.New().Token("request.method", c.Request.Method)
	for _, name := range sortedKeys(c.Request.Headers) {
		v.Token("request.headers."+name, name)
	}
	return v.Validate()
}

// parseHeader splits a "Name: value" flag argument.
func parseHeader(raw string) (string, string, error) {
	name, value, ok := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if !ok || !validation.IsToken(name) {
		return "", "", fmt.Errorf("invalid header %q, want \"Name: value\"", raw)
	}
	return name, strings.TrimSpace(value), nil
}

func hasHeader(h map[string]string, name string) bool {
	for k := range h {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
