// Package config loads layered configuration for xhrkit programs.
//
// Sources are applied lowest to highest: a config.yml file, a .env file and
// the process environment, then command-line flags that were set explicitly.
//
//	var cfg Config
//	err := config.LoadConfig("xhrget", &cfg,
//	    config.WithConfigFile(path),
//	    config.WithEnvPrefix("XHRGET"),
//	    config.WithFlags(fs, map[string]string{"method": "request.method"}),
//	)
//
// Environment variables map onto nested keys by splitting on underscores, so
// XHRGET_HTTP_BASE_URL can reach http.base_url.
package config
