package config

import "time"

// Default workflow parameters mirror the reference deployment of the
// federated network: a two-year survival horizon binned monthly, and a
// four-cluster TNM similarity model.
const (
	DefaultCutoff  = 730
	DefaultDelta   = 30
	DefaultK       = 4
	DefaultEpsilon = 0.01
	DefaultMaxIter = 50
)

// ApplyDefaults fills every unset field of cfg with its platform default.
// It never overwrites a value that is already set.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Vantage.APIPath == "" {
		cfg.Vantage.APIPath = "/api"
	}
	if cfg.Vantage.Timeout == 0 {
		cfg.Vantage.Timeout = 30 * time.Second
	}
	if cfg.Vantage.RetryMax == 0 {
		cfg.Vantage.RetryMax = 3
	}

	if cfg.Workflows.Statistics.Cutoff == 0 {
		cfg.Workflows.Statistics.Cutoff = DefaultCutoff
	}
	if cfg.Workflows.Statistics.Delta == 0 {
		cfg.Workflows.Statistics.Delta = DefaultDelta
	}
	if cfg.Workflows.Statistics.Method == "" {
		cfg.Workflows.Statistics.Method = "master"
	}
	if cfg.Workflows.Survival.MaxIter == 0 {
		cfg.Workflows.Survival.MaxIter = DefaultMaxIter
	}
	if cfg.Workflows.Survival.Method == "" {
		cfg.Workflows.Survival.Method = "master"
	}
	if cfg.Workflows.Similarity.K == 0 {
		cfg.Workflows.Similarity.K = DefaultK
	}
	if cfg.Workflows.Similarity.Epsilon == 0 {
		cfg.Workflows.Similarity.Epsilon = DefaultEpsilon
	}
	if cfg.Workflows.Similarity.MaxIter == 0 {
		cfg.Workflows.Similarity.MaxIter = DefaultMaxIter
	}
	if len(cfg.Workflows.Similarity.Columns) == 0 {
		cfg.Workflows.Similarity.Columns = []string{"t", "n", "m"}
	}
	if cfg.Workflows.Similarity.Method == "" {
		cfg.Workflows.Similarity.Method = "master"
	}

	if cfg.Staging.Policy == "" {
		cfg.Staging.Policy = "enumeration"
	}
	if cfg.Staging.CDMPath == "" {
		cfg.Staging.CDMPath = "input/cdm.json"
	}

	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = 5432
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
	}
	if cfg.Postgres.MaxConns == 0 {
		cfg.Postgres.MaxConns = 10
	}
	if cfg.Postgres.ConnectTimeout == 0 {
		cfg.Postgres.ConnectTimeout = 5 * time.Second
	}
	if cfg.Postgres.MigrationsPath == "" {
		cfg.Postgres.MigrationsPath = "file://migrations"
	}

	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 24 * time.Hour
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "healthai:"
	}

	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = time.Second
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = 3
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "healthai"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}
	if len(cfg.Log.ErrorOutputPaths) == 0 {
		cfg.Log.ErrorOutputPaths = []string{"stderr"}
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults plus a
// placeholder vantage/collaboration section.  Intended for local development
// and tests; production deployments always load a real config file.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Vantage: VantageConfig{
			URL:  "http://localhost",
			Port: 5000,
		},
		Collaboration: CollaborationConfig{
			ID:              1,
			OrganizationIDs: []int{2, 3},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
