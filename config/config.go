// Package config reads .lunascope.yaml and LUNASCOPE_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/logging"
)

// Config is the resolved configuration.
type Config struct {
	Factor     float64
	PointWidth float64
	MinLeft    float64
	// Debug is the log file; empty disables logging.
	Debug string
	// SList is the sample list opened by default, with ~ expanded.
	SList string
	// FilterColumns restricts text filtering to these columns.
	FilterColumns []string
	// File is the config file that was read, empty when none was found.
	File string
}

// Load reads the config file from $LUNASCOPE_CONFIG_PATH, the working
// directory or the home directory. A missing file is fine; a malformed one
// is an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("expand.factor", 2.0)
	v.SetDefault("expand.point_width", 10.0)
	v.SetDefault("expand.min_left", 0.0)
	v.SetDefault("debug", "")
	v.SetDefault("slist", "")
	v.SetDefault("filter.columns", []string{})
	v.SetConfigName(".lunascope") // .yaml is implicit
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LUNASCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("LUNASCOPE_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		logging.Debugf("no config file, using defaults")
	}

	slist, err := homedir.Expand(v.GetString("slist"))
	if err != nil {
		return nil, fmt.Errorf("invalid slist path: %w", err)
	}
	c := &Config{
		Factor:        v.GetFloat64("expand.factor"),
		PointWidth:    v.GetFloat64("expand.point_width"),
		MinLeft:       v.GetFloat64("expand.min_left"),
		Debug:         v.GetString("debug"),
		SList:         slist,
		FilterColumns: v.GetStringSlice("filter.columns"),
		File:          v.ConfigFileUsed(),
	}
	if _, err := c.Expander(); err != nil {
		return nil, fmt.Errorf("config %s: %w", c.File, err)
	}
	return c, nil
}

// Expander returns the configured interval expander.
func (c *Config) Expander() (annot.Expander, error) {
	x := annot.Expander{Factor: c.Factor, PointWidth: c.PointWidth, MinLeft: c.MinLeft}
	if err := x.Validate(); err != nil {
		return annot.Expander{}, err
	}
	return x, nil
}
