package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"portal"`
	Password string `env:"PASSWORD" envDefault:"portal"`
	Name     string `env:"NAME"     envDefault:"portal"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// VaultBackend names where client identities persist between visits.
type VaultBackend string

const (
	// VaultBackendRedis persists identities in Redis. The default.
	VaultBackendRedis VaultBackend = "redis"
	// VaultBackendMemory keeps identities in process memory. Sessions do
	// not survive a restart; development only.
	VaultBackendMemory VaultBackend = "memory"
)

// VaultConfig contains identity vault configuration.
type VaultConfig struct {
	Backend VaultBackend  `env:"BACKEND" envDefault:"redis"`
	Prefix  string        `env:"PREFIX"  envDefault:"identity:"`
	TTL     time.Duration `env:"TTL"     envDefault:"720h"`
}

// Sanitize applies guardrails to vault configuration values.
func (v *VaultConfig) Sanitize() {
	if v.Backend != VaultBackendMemory {
		v.Backend = VaultBackendRedis
	}
	if v.TTL <= 0 {
		v.TTL = 720 * time.Hour
	}
}

// NotifyConfig contains webhook notification configuration. An empty URL
// disables the webhook; notifications then go to the structured log.
type NotifyConfig struct {
	WebhookURL string `env:"WEBHOOK_URL" envDefault:""`
	Channel    string `env:"CHANNEL"     envDefault:""`
	Username   string `env:"USERNAME"    envDefault:"placement-portal"`
	RetryLimit int    `env:"RETRY_LIMIT" envDefault:"2"`
}
