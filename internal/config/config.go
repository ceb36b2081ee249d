package config

import "time"

type Config struct {
	Service   *ServiceConfig
	Chat      *ChatConfig
	Redis     *RedisConfig
	Postgres  *PostgresConfig
	Sink      *SinkConfig
	Logger    *LoggerConfig
	Tracer    *TracerConfig
	JWTSecret string
}

type ServiceConfig struct {
	Name string
	Env  string
	Addr string
}

type ChatConfig struct {
	Room        string
	StreamTopic string
}

type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	PingTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

type SinkConfig struct {
	Workers   int
	QueueSize int
}

type LoggerConfig struct {
	Level  string
	Format string
}

type TracerConfig struct {
	Address string
}
