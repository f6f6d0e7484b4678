// Package config defines all configuration structures for the HealthAI
// dashboard.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// Version is the dashboard release version, overridable at build time.
var Version = "0.1.0"

// ServerConfig holds HTTP server tunables for the dashboard API.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// VantageConfig holds connection and credential parameters for the remote
// federated-computation platform.
type VantageConfig struct {
	URL            string        `mapstructure:"url"`
	Port           int           `mapstructure:"port"`
	APIPath        string        `mapstructure:"api_path"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	PrivateKeyPath string        `mapstructure:"private_key_path"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RetryMax       int           `mapstructure:"retry_max"`
}

// CollaborationConfig identifies the group of organizations tasks are
// dispatched to.
type CollaborationConfig struct {
	ID              int   `mapstructure:"id"`
	OrganizationIDs []int `mapstructure:"organization_ids"`
}

// StatisticsWorkflowConfig holds parameters for the statistics task.
type StatisticsWorkflowConfig struct {
	Cutoff int    `mapstructure:"cutoff"` // survival binning horizon in days, exclusive
	Delta  int    `mapstructure:"delta"`  // bin width in days
	Image  string `mapstructure:"image"`
	Method string `mapstructure:"method"`
}

// SurvivalWorkflowConfig holds parameters for the survival-analysis task.
type SurvivalWorkflowConfig struct {
	MaxIter int    `mapstructure:"max_iter"`
	Image   string `mapstructure:"image"`
	Method  string `mapstructure:"method"`
}

// SimilarityWorkflowConfig holds parameters for the patient-similarity task.
type SimilarityWorkflowConfig struct {
	K       int      `mapstructure:"k"`
	Epsilon float64  `mapstructure:"epsilon"`
	MaxIter int      `mapstructure:"max_iter"`
	Columns []string `mapstructure:"columns"`
	Image   string   `mapstructure:"image"`
	Method  string   `mapstructure:"method"`
}

// WorkflowsConfig groups the per-page workflow parameter sets.
type WorkflowsConfig struct {
	Statistics StatisticsWorkflowConfig `mapstructure:"statistics"`
	Survival   SurvivalWorkflowConfig   `mapstructure:"survival"`
	Similarity SimilarityWorkflowConfig `mapstructure:"similarity"`
}

// StagingConfig selects the stage-encoding policy and the clinical reference
// data document.  Exactly one policy is active per deployment.
type StagingConfig struct {
	Policy  string `mapstructure:"policy"` // "enumeration" | "digit"
	CDMPath string `mapstructure:"cdm_path"`
}

// DatasetConfig points at the optional local tabular dataset used by the
// non-federated statistics variant.
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig holds task-history database parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MaxConns       int           `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MigrationsPath string        `mapstructure:"migrations_path"`
}

// RedisConfig holds parameters for the durable result-cache layer.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds parameters for the task lifecycle event producer.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// MetricsConfig holds Prometheus collector parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// Config is the root configuration object for the dashboard.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Vantage       VantageConfig       `mapstructure:"vantage"`
	Collaboration CollaborationConfig `mapstructure:"collaboration"`
	Workflows     WorkflowsConfig     `mapstructure:"workflows"`
	Staging       StagingConfig       `mapstructure:"staging"`
	Dataset       DatasetConfig       `mapstructure:"dataset"`
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	Log           LogConfig           `mapstructure:"log"`
}

// Validate checks cross-field consistency.  It is called after defaults are
// applied, so zero values that have defaults never reach it.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Vantage.URL == "" {
		return fmt.Errorf("vantage.url is required")
	}
	if c.Vantage.Port <= 0 || c.Vantage.Port > 65535 {
		return fmt.Errorf("vantage.port must be in (0, 65535], got %d", c.Vantage.Port)
	}
	if c.Collaboration.ID <= 0 {
		return fmt.Errorf("collaboration.id must be positive, got %d", c.Collaboration.ID)
	}
	if len(c.Collaboration.OrganizationIDs) == 0 {
		return fmt.Errorf("collaboration.organization_ids must not be empty")
	}
	if c.Workflows.Statistics.Delta <= 0 {
		return fmt.Errorf("workflows.statistics.delta must be positive, got %d", c.Workflows.Statistics.Delta)
	}
	if c.Workflows.Statistics.Cutoff <= 0 {
		return fmt.Errorf("workflows.statistics.cutoff must be positive, got %d", c.Workflows.Statistics.Cutoff)
	}
	if c.Workflows.Statistics.Cutoff <= c.Workflows.Statistics.Delta {
		return fmt.Errorf("workflows.statistics.cutoff (%d) must exceed delta (%d)",
			c.Workflows.Statistics.Cutoff, c.Workflows.Statistics.Delta)
	}
	if c.Workflows.Similarity.K <= 0 {
		return fmt.Errorf("workflows.similarity.k must be positive, got %d", c.Workflows.Similarity.K)
	}
	if c.Workflows.Similarity.Epsilon <= 0 {
		return fmt.Errorf("workflows.similarity.epsilon must be positive, got %g", c.Workflows.Similarity.Epsilon)
	}
	if c.Workflows.Similarity.MaxIter <= 0 {
		return fmt.Errorf("workflows.similarity.max_iter must be positive, got %d", c.Workflows.Similarity.MaxIter)
	}
	if c.Workflows.Survival.MaxIter <= 0 {
		return fmt.Errorf("workflows.survival.max_iter must be positive, got %d", c.Workflows.Survival.MaxIter)
	}
	switch c.Staging.Policy {
	case "enumeration", "digit":
	default:
		return fmt.Errorf("staging.policy must be %q or %q, got %q", "enumeration", "digit", c.Staging.Policy)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must not be empty when kafka is enabled")
	}
	return nil
}

//Personal.AI order the ending
