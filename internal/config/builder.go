package config

import (
	"flag"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog"
)

type Config struct {
	Address          string `env:"RUN_ADDRESS"       envDefault:"localhost:8080"`
	JwtSecret        string `env:"JWT_SECRET"        envDefault:""`
	Redis            string `env:"REDIS"             envDefault:"localhost:6379"`
	Kafka            string `env:"KAFKA"             envDefault:"localhost:9092"`
	Jaeger           string `env:"JAEGER"            envDefault:""`
	QueueTimezone    string `env:"QUEUE_TIMEZONE"    envDefault:"UTC"`
	BootstrapMinutes int    `env:"BOOTSTRAP_MINUTES" envDefault:"3"`
}

// Builder defines the builder for the Config struct.
type Builder struct {
	cfg    *Config
	logger *zerolog.Logger
}

// NewConfigBuilder initializes the ConfigBuilder with default values.
func NewConfigBuilder(log *zerolog.Logger) *Builder {
	return &Builder{
		cfg: &Config{
			Address:          "",
			JwtSecret:        "",
			Redis:            "",
			Kafka:            "",
			Jaeger:           "",
			QueueTimezone:    "",
			BootstrapMinutes: 0,
		},
		logger: log,
	}
}

// FromEnv parses environment variables into the ConfigBuilder.
func (b *Builder) FromEnv() *Builder {
	if err := env.Parse(b.cfg); err != nil {
		b.logger.Error().Err(err).Msg("failed to parse environment variables")
	}

	return b
}

// FromFlags parses command line flags into the ConfigBuilder.
func (b *Builder) FromFlags() *Builder {
	flag.StringVar(&b.cfg.Address, "a", b.cfg.Address, "address and port to run server")
	flag.StringVar(&b.cfg.JwtSecret, "jwt", b.cfg.JwtSecret, "JWT Secret")
	flag.StringVar(&b.cfg.Redis, "redis", b.cfg.Redis, "Redis connection string")
	flag.StringVar(&b.cfg.Kafka, "kafka", b.cfg.Kafka, "Kafka connection string")
	flag.StringVar(&b.cfg.Jaeger, "jaeger", b.cfg.Jaeger, "Jaeger OTLP endpoint")
	flag.StringVar(&b.cfg.QueueTimezone, "tz", b.cfg.QueueTimezone, "IANA timezone for the daily ticket counter")
	flag.IntVar(&b.cfg.BootstrapMinutes, "bootstrap", b.cfg.BootstrapMinutes, "service minutes assumed before history exists")
	flag.Parse()

	return b
}

// Build returns the final configuration.
func (b *Builder) Build() *Config {
	if b.cfg.QueueTimezone == "" {
		b.cfg.QueueTimezone = "UTC"
	}

	return b.cfg
}

// Location resolves the configured queue timezone, falling back to UTC on
// an unknown name so the day boundary never depends on the host zone.
func (c *Config) Location(log *zerolog.Logger) *time.Location {
	loc, err := time.LoadLocation(c.QueueTimezone)
	if err != nil {
		log.Error().Err(err).Str("timezone", c.QueueTimezone).Msg("unknown timezone, falling back to UTC")

		return time.UTC
	}

	return loc
}
