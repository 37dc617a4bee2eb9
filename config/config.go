/*
Copyright 2025 Clearline Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5001"

	// DEFAULT_DRAIN_TIMEOUT_SEC bounds a single manual queue-drain call.
	DEFAULT_DRAIN_TIMEOUT_SEC = 60

	// DEFAULT_POLL_INTERVAL_SEC is the worker's interval between queue polls.
	DEFAULT_POLL_INTERVAL_SEC = 5
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"CLEARLINE_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"CLEARLINE_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"CLEARLINE_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"CLEARLINE_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"CLEARLINE_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"CLEARLINE_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"CLEARLINE_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"CLEARLINE_REDIS_DNS"`
}

// QueueConfig tunes the task delegator and its drivers. The queue itself
// lives in the relational store; these are polling knobs only.
type QueueConfig struct {
	PollIntervalSec int `json:"poll_interval_sec" envconfig:"CLEARLINE_QUEUE_POLL_INTERVAL_SEC"`
	DrainTimeoutSec int `json:"drain_timeout_sec" envconfig:"CLEARLINE_QUEUE_DRAIN_TIMEOUT_SEC"`
}

// ReconEngineConfig points at the external reconciliation engine service
// that performs the actual matching and posting.
type ReconEngineConfig struct {
	Url     string `json:"url" envconfig:"CLEARLINE_RECON_ENGINE_URL"`
	Timeout int    `json:"timeout" envconfig:"CLEARLINE_RECON_ENGINE_TIMEOUT"`
	Headers struct {
		Authorization string `json:"Authorization"`
	} `json:"headers"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"CLEARLINE_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"CLEARLINE_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"CLEARLINE_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName     string            `json:"project_name" envconfig:"CLEARLINE_PROJECT_NAME"`
	EnableTelemetry bool              `json:"enable_telemetry" envconfig:"CLEARLINE_ENABLE_TELEMETRY"`
	TelemetryKey    string            `json:"telemetry_key" envconfig:"CLEARLINE_TELEMETRY_KEY"`
	Server          ServerConfig      `json:"server"`
	DataSource      DataSourceConfig  `json:"data_source"`
	Redis           RedisConfig       `json:"redis"`
	Queue           QueueConfig       `json:"queue"`
	ReconEngine     ReconEngineConfig `json:"recon_engine"`
	Notification    Notification      `json:"notification"`
	RateLimit       RateLimitConfig   `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("clearline", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called clearline.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Clearline Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.ReconEngine.Url = strings.TrimSpace(cnf.ReconEngine.Url)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Queue.PollIntervalSec <= 0 {
		cnf.Queue.PollIntervalSec = DEFAULT_POLL_INTERVAL_SEC
	}
	if cnf.Queue.DrainTimeoutSec <= 0 {
		cnf.Queue.DrainTimeoutSec = DEFAULT_DRAIN_TIMEOUT_SEC
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	// Set default cleanup interval if not specified
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
		log.Printf("Warning: Rate limit cleanup interval not specified. Setting default value: %d seconds", defaultCleanup)
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
