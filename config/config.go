// config.go - Handles configuration for the project
//
// Values come from CLI flags, then environment variables, then an optional
// TOML file. A .env file is loaded into the environment before parsing.

package config // Declares the package name

import ( // Import required packages
	"errors"   // Sentinel errors
	"log/slog" // Fallback warning
	"strings"  // Case-insensitive env names

	altsrc "github.com/urfave/cli-altsrc/v3" // Config file sourcer
	"github.com/urfave/cli-altsrc/v3/toml"   // TOML value sources
	"github.com/urfave/cli/v3"               // CLI flags
)

// DevJWTSecret is used only when running in development without JWT_SECRET.
const DevJWTSecret = "default-dev-secret"

const (
	// EnvDevelopment is the only environment allowed to fall back to DevJWTSecret.
	EnvDevelopment = "development"
	// EnvProduction is the default, so a missing APP_ENV never enables the fallback.
	EnvProduction = "production"
)

// ErrMissingJWTSecret is returned outside development when no secret is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required outside development")

// configPath is bound to the --config flag. TOML lookups read it lazily.
var configPath = "config.toml"

var configFile = altsrc.NewStringPtrSourcer(&configPath)

type Config struct { // Config struct holds all configuration values
	Env      string
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Auth     AuthConfig
	MQTT     MQTTConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	Driver string // sqlite, postgres
	DSN    string
}

type AuthConfig struct {
	JWTSecret       string
	AdminNationalID string // bootstrap admin, created at startup when set
	AdminPassword   string
	AdminName       string
}

type MQTTConfig struct {
	Broker   string // empty disables vote events
	Topic    string
	ClientID string
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

// NewFromCLI builds the configuration from a parsed command and applies
// the signing secret policy.
func NewFromCLI(cmd *cli.Command) (*Config, error) {
	cfg := &Config{
		Env: cmd.String("env"),
		Server: ServerConfig{
			Host: cmd.String("host"),
			Port: int(cmd.Int("port")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			Driver: cmd.String("database-driver"),
			DSN:    cmd.String("database-dsn"),
		},
		Auth: AuthConfig{
			JWTSecret:       cmd.String("jwt-secret"),
			AdminNationalID: cmd.String("admin-national-id"),
			AdminPassword:   cmd.String("admin-password"),
			AdminName:       cmd.String("admin-name"),
		},
		MQTT: MQTTConfig{
			Broker:   cmd.String("mqtt-broker"),
			Topic:    cmd.String("mqtt-topic"),
			ClientID: cmd.String("mqtt-client-id"),
		},
	}

	if err := cfg.resolveSecret(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveSecret applies the development fallback or fails.
func (c *Config) resolveSecret() error {
	if c.Auth.JWTSecret != "" {
		return nil
	}
	if !c.IsDevelopment() {
		return ErrMissingJWTSecret
	}
	slog.Warn("JWT_SECRET not set, using development fallback secret")
	c.Auth.JWTSecret = DevJWTSecret
	return nil
}

func sources(envKey, tomlKey string) cli.ValueSourceChain {
	return cli.NewValueSourceChain(cli.EnvVar(envKey), toml.TOML(tomlKey, configFile))
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       "config.toml",
			Usage:       "Path to an optional TOML configuration file",
			Destination: &configPath,
			Sources:     cli.EnvVars("CONFIG"),
		},
		&cli.StringFlag{
			Name:    "env",
			Value:   EnvProduction,
			Usage:   "Environment (development, production). Only development may run without a JWT secret",
			Sources: sources("APP_ENV", "env"),
		},
		&cli.StringFlag{
			Name:    "host",
			Value:   "",
			Usage:   "Host to bind to",
			Sources: sources("HOST", "server.host"),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   3000,
			Usage:   "Port to listen on",
			Sources: sources("PORT", "server.port"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: sources("LOG_LEVEL", "log.level"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: sources("LOG_FORMAT", "log.format"),
		},
		&cli.StringFlag{
			Name:    "database-driver",
			Value:   "sqlite",
			Usage:   "Database driver (sqlite, postgres)",
			Sources: sources("DATABASE_DRIVER", "database.driver"),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "data.db",
			Usage:   "Database DSN (file path for sqlite)",
			Sources: sources("DATABASE_DSN", "database.dsn"),
		},
		&cli.StringFlag{
			Name:    "jwt-secret",
			Usage:   "Secret key for signing tokens (required outside development)",
			Sources: sources("JWT_SECRET", "auth.jwt_secret"),
		},
		&cli.StringFlag{
			Name:    "admin-national-id",
			Usage:   "National ID of the admin created at startup",
			Sources: sources("ADMIN_NATIONAL_ID", "auth.admin_national_id"),
		},
		&cli.StringFlag{
			Name:    "admin-password",
			Usage:   "Password of the admin created at startup",
			Sources: sources("ADMIN_PASSWORD", "auth.admin_password"),
		},
		&cli.StringFlag{
			Name:    "admin-name",
			Value:   "Administrator",
			Usage:   "Name of the admin created at startup",
			Sources: sources("ADMIN_NAME", "auth.admin_name"),
		},
		&cli.StringFlag{
			Name:    "mqtt-broker",
			Usage:   "MQTT broker URL for vote events, e.g. tcp://localhost:1883",
			Sources: sources("MQTT_BROKER", "mqtt.broker"),
		},
		&cli.StringFlag{
			Name:    "mqtt-topic",
			Value:   "voting/votes",
			Usage:   "MQTT topic for vote events",
			Sources: sources("MQTT_TOPIC", "mqtt.topic"),
		},
		&cli.StringFlag{
			Name:    "mqtt-client-id",
			Value:   "voting-backend",
			Usage:   "MQTT client ID",
			Sources: sources("MQTT_CLIENT_ID", "mqtt.client_id"),
		},
	}
}
