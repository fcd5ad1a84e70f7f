// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "hashirwa.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type Config struct {
	AdminKey        string `yaml:"adminKey"        envconfig:"ADMIN_KEY"`
	BindAddr        string `yaml:"bindAddr"                          split_words:"true"`
	DatabasePath    string `yaml:"databasePath"                      split_words:"true"`
	ShutdownTimeout string `yaml:"shutdownTimeout"                   split_words:"true"`
	ApiPort         uint   `yaml:"apiPort"         envconfig:"port"`
	MetricsPort     uint   `yaml:"metricsPort"                       split_words:"true"`
	SeedDemoData    bool   `yaml:"seedDemoData"                      split_words:"true"`
}

var globalConfig = &Config{
	AdminKey:        "hashirwa",
	BindAddr:        "0.0.0.0",
	DatabasePath:    "db.json",
	ShutdownTimeout: DefaultShutdownTimeout,
	ApiPort:         8080,
	MetricsPort:     8081,
	SeedDemoData:    true,
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.hashirwa/hashirwa.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".hashirwa", "hashirwa.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/hashirwa/hashirwa.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/hashirwa/hashirwa.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	err := envconfig.Process("hashirwa", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}

	// Validate shutdown timeout up front so a bad value fails at startup
	// rather than at first shutdown
	if globalConfig.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(globalConfig.ShutdownTimeout); err != nil {
			return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
		}
	}

	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}
