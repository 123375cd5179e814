// Package config loads scraper settings through Viper. Defaults reproduce the
// fixed paths and constants of a plain run; a YAML file, FRAGSCRAPER_* env
// vars and command line flags override them in that order.
package config

import (
	"fmt"
	"strings"

	"fragrance-scraper/internal/types"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "FRAGSCRAPER"

// FlagKeys maps command line flag names to configuration keys
var FlagKeys = map[string]string{
	"catalog":  "scraper.catalog_path",
	"images":   "scraper.images_dir",
	"manifest": "scraper.manifest_path",
	"delay":    "scraper.request_delay",
	"timeout":  "http.timeout",
	"browser":  "browser.enabled",
	"port":     "api.port",
}

// Load builds a Config from defaults, the optional file at path, the
// environment and any flags in flags that were set.
func Load(path string, flags *pflag.FlagSet) (*types.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, types.DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	config := &types.Config{
		CatalogPath:        v.GetString("scraper.catalog_path"),
		ImagesDir:          v.GetString("scraper.images_dir"),
		PublicPrefix:       v.GetString("scraper.public_prefix"),
		ManifestPath:       v.GetString("scraper.manifest_path"),
		RequestDelay:       v.GetDuration("scraper.request_delay"),
		UserAgent:          v.GetString("scraper.user_agent"),
		Timeout:            v.GetDuration("http.timeout"),
		CloudflareBypass:   v.GetBool("http.cloudflare_bypass"),
		UseHeadlessBrowser: v.GetBool("browser.enabled"),
		BrowserTimeout:     v.GetDuration("browser.timeout"),
		FragranticaBaseURL: v.GetString("sources.fragrantica_base_url"),
		ImageSearchURL:     v.GetString("sources.image_search_url"),
		APIPort:            v.GetInt("api.port"),
	}

	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper, d *types.Config) {
	v.SetDefault("scraper.catalog_path", d.CatalogPath)
	v.SetDefault("scraper.images_dir", d.ImagesDir)
	v.SetDefault("scraper.public_prefix", d.PublicPrefix)
	v.SetDefault("scraper.manifest_path", d.ManifestPath)
	v.SetDefault("scraper.request_delay", d.RequestDelay)
	v.SetDefault("scraper.user_agent", d.UserAgent)
	v.SetDefault("http.timeout", d.Timeout)
	v.SetDefault("http.cloudflare_bypass", d.CloudflareBypass)
	v.SetDefault("browser.enabled", d.UseHeadlessBrowser)
	v.SetDefault("browser.timeout", d.BrowserTimeout)
	v.SetDefault("sources.fragrantica_base_url", d.FragranticaBaseURL)
	v.SetDefault("sources.image_search_url", d.ImageSearchURL)
	v.SetDefault("api.port", d.APIPort)
}

// Validate enforces required values
func Validate(c *types.Config) error {
	switch {
	case strings.TrimSpace(c.CatalogPath) == "":
		return fmt.Errorf("scraper.catalog_path is required")
	case strings.TrimSpace(c.ImagesDir) == "":
		return fmt.Errorf("scraper.images_dir is required")
	case strings.TrimSpace(c.ManifestPath) == "":
		return fmt.Errorf("scraper.manifest_path is required")
	case c.RequestDelay < 0:
		return fmt.Errorf("scraper.request_delay must be >= 0")
	case c.Timeout < 0:
		return fmt.Errorf("http.timeout must be >= 0")
	case strings.TrimSpace(c.FragranticaBaseURL) == "":
		return fmt.Errorf("sources.fragrantica_base_url is required")
	case strings.TrimSpace(c.ImageSearchURL) == "":
		return fmt.Errorf("sources.image_search_url is required")
	case c.APIPort <= 0:
		return fmt.Errorf("api.port must be > 0")
	}
	return nil
}
