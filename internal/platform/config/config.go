package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // shift timezones must resolve on minimal images

	liststrings "tempo/pkg/platform/strings"
)

// Config is the full process configuration assembled from the environment.
type Config struct {
	Server    Server
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Emitter   EmitterConfig
	Reconcile ReconcileConfig
	LogLevel  string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects Postgres storage. An empty URL keeps stores in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig enables the Redis pub/sub publisher and the employee cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	EmployeeTTL  time.Duration
}

// KafkaConfig enables the Kafka lifecycle publisher.
type KafkaConfig struct {
	Brokers           []string
	EventsTopic       string
	Partitions        int32
	ReplicationFactor int16
}

// EmitterConfig sizes the lifecycle event lanes.
type EmitterConfig struct {
	Lanes          int
	BufferPerLane  int
	PublishTimeout time.Duration
}

// ReconcileConfig controls the worked-time engine.
type ReconcileConfig struct {
	Timezone string
	Workers  int
}

// Location resolves the reconciliation timezone, falling back to UTC.
func (c ReconcileConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envString("TEMPO_ADDR", ":8080"),
			ShutdownTimeout: envDuration("TEMPO_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			EmployeeTTL:  envDuration("REDIS_EMPLOYEE_TTL", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:           envList("KAFKA_BROKERS"),
			EventsTopic:       envString("KAFKA_EVENTS_TOPIC", "attendance.lifecycle"),
			Partitions:        int32(envInt("KAFKA_EVENTS_PARTITIONS", 6)),
			ReplicationFactor: int16(envInt("KAFKA_EVENTS_REPLICATION", 1)),
		},
		Emitter: EmitterConfig{
			Lanes:          envInt("EMITTER_LANES", 8),
			BufferPerLane:  envInt("EMITTER_BUFFER", 256),
			PublishTimeout: envDuration("EMITTER_PUBLISH_TIMEOUT", 5*time.Second),
		},
		Reconcile: ReconcileConfig{
			Timezone: envString("RECONCILE_TIMEZONE", "UTC"),
			Workers:  envInt("RECONCILE_WORKERS", 8),
		},
		LogLevel: envString("LOG_LEVEL", "info"),
	}
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envList(key string) []string {
	return liststrings.SplitList(os.Getenv(key), ",")
}
