// Package config loads the bot configuration from a YAML document, an env
// file and the process environment, and validates it once at startup.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sadbox/echobot/pkg/s3client"
)

const (
	DefaultPath    = "conf/config.yaml"
	DefaultEnvFile = ".env"

	keyCommandPrefix = "discord.command_prefix"
	keyChannelID     = "discord.channel_id"
	keyToken         = "discord.token"
	keyGuildID       = "discord.guild_id"
	keySlashCommands = "discord.slash_commands"
	keyLogLevel      = "log.level"
	keyHealthcheck   = "healthcheck.endpoint"
	keyEnv           = "env"
)

// envBindings maps config keys to the environment variables that override
// them, in priority order.
var envBindings = map[string][]string{
	keyToken:         {"ECHOBOT_DISCORD_TOKEN", "DISCORD_TOKEN"},
	keyCommandPrefix: {"ECHOBOT_COMMAND_PREFIX"},
	keyChannelID:     {"ECHOBOT_CHANNEL_ID"},
	keyGuildID:       {"ECHOBOT_GUILD_ID"},
	keySlashCommands: {"ECHOBOT_SLASH_COMMANDS"},
	keyLogLevel:      {"ECHOBOT_LOG_LEVEL"},
	keyHealthcheck:   {"ECHOBOT_HEALTHCHECK_ENDPOINT"},
	keyEnv:           {"ECHOBOT_ENV"},
}

// EnvVars lists every environment variable Load reads a config value from.
func EnvVars() []string {
	var names []string
	for _, n := range envBindings {
		names = append(names, n...)
	}
	slices.Sort(names)
	return names
}

// Config is the validated bot configuration. It is never modified after Load.
type Config struct {
	CommandPrefix       string       `key:"discord.command_prefix" validate:"required"`
	ChannelID           snowflake.ID `key:"discord.channel_id"     validate:"required"`
	Token               string       `key:"discord.token"          validate:"required"`
	GuildID             snowflake.ID `key:"discord.guild_id"`
	SlashCommands       bool         `key:"discord.slash_commands"`
	LogLevel            string       `key:"log.level"              validate:"oneof=debug info warn error"`
	HealthcheckEndpoint string       `key:"healthcheck.endpoint"   validate:"omitempty,url"`
	Env                 string       `key:"env"`
}

// ObjectFetcher reads configuration documents from object storage.
type ObjectFetcher interface {
	FetchObject(ctx context.Context, bucket, key string) ([]byte, error)
}

type options struct {
	envFile string
	objects ObjectFetcher
	log     *slog.Logger
}

type Option func(*options)

// WithEnvFile sets the env file loaded before the environment is consulted.
// An empty path disables env file loading.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// WithObjectFetcher sets the store used for s3:// configuration paths.
// Without it an s3client is built from the S3_* environment variables.
func WithObjectFetcher(f ObjectFetcher) Option {
	return func(o *options) { o.objects = f }
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("key")
	})
	return v
}

// Load reads the configuration document at path (a local file or an
// s3://bucket/key URL). Environment variables, including those from the env
// file, override values from the document. All problems are reported
// together in a *ConfigurationError.
func Load(ctx context.Context, path string, opts ...Option) (*Config, error) {
	o := options{envFile: DefaultEnvFile, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var problems []string
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			problems = append(problems, fmt.Sprintf("env file %s: %v", o.envFile, err))
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault(keyLogLevel, "info")
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	data, err := readDocument(ctx, path, &o)
	if err != nil {
		problems = append(problems, err.Error())
	} else if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		problems = append(problems, fmt.Sprintf("parsing %s: %v", path, err))
	}

	cfg := &Config{
		CommandPrefix:       v.GetString(keyCommandPrefix),
		Token:               strings.TrimSpace(v.GetString(keyToken)),
		SlashCommands:       v.GetBool(keySlashCommands),
		LogLevel:            strings.ToLower(v.GetString(keyLogLevel)),
		HealthcheckEndpoint: v.GetString(keyHealthcheck),
		Env:                 v.GetString(keyEnv),
	}

	// Keys whose raw value failed to parse; the validator would otherwise
	// report them a second time as missing.
	unparsed := make(map[string]bool)
	if cfg.ChannelID, err = parseID(v, keyChannelID); err != nil {
		problems = append(problems, err.Error())
		unparsed[keyChannelID] = true
	}
	if cfg.GuildID, err = parseID(v, keyGuildID); err != nil {
		problems = append(problems, err.Error())
		unparsed[keyGuildID] = true
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validating configuration: %w", err)
		}
		for _, fe := range verrs {
			if unparsed[fe.Field()] {
				continue
			}
			problems = append(problems, describe(fe))
		}
	}

	if len(problems) > 0 {
		return nil, &ConfigurationError{Source: path, Problems: problems}
	}

	o.log.Info("Configuration loaded",
		"source", path,
		"command_prefix", cfg.CommandPrefix,
		"channel_id", cfg.ChannelID,
		"slash_commands", cfg.SlashCommands,
		"env", cfg.Env)
	return cfg, nil
}

func readDocument(ctx context.Context, path string, o *options) ([]byte, error) {
	if !s3client.IsURL(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return data, nil
	}

	bucket, key, err := s3client.ParseURL(path)
	if err != nil {
		return nil, err
	}
	if o.objects == nil {
		client, err := s3client.New()
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		o.objects = client
	}
	data, err := o.objects.FetchObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// parseID accepts integer and numeric string values. A missing key yields 0.
func parseID(v *viper.Viper, key string) (snowflake.ID, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" || raw == "0" {
		return 0, nil
	}
	id, err := snowflake.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a valid id", key, raw)
	}
	return id, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + ": is required"
	case "oneof":
		return fmt.Sprintf("%s: %q must be one of [%s]", fe.Field(), fe.Value(), fe.Param())
	case "url":
		return fmt.Sprintf("%s: %q is not a valid URL", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s: failed %q validation", fe.Field(), fe.Tag())
	}
}
