// Package config loads and validates the process-wide AppConfig: struct
// defaults via koanf's structs provider, overridden by environment
// variables under the DNSFWD_ prefix, then checked with struct tags.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds the forwarder's runtime configuration.
type AppConfig struct {
	// Env is the runtime environment, "dev" or "prod"; it selects the
	// log encoder (see log.Configure).
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	Log LoggingConfig `koanf:"log" validate:"required"`

	Server ServerConfig `koanf:"server" validate:"required"`
}

// LoggingConfig controls the package-level logger (see
// internal/dns/common/log).
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`
}

// ServerConfig describes the UDP listener and the single upstream
// resolver it forwards unanswered queries to.
type ServerConfig struct {
	// Port is the UDP port the forwarder listens on, bound to 0.0.0.0.
	Port int `koanf:"port" validate:"required,gte=1,lte=65535"`

	// Upstream is the "ip:port" address of the recursive resolver every
	// incoming query is forwarded to.
	Upstream string `koanf:"upstream" validate:"required,ip_port"`

	// Timeout bounds how long the forwarder waits for a reply from
	// Upstream before answering the client with SERVFAIL.
	Timeout time.Duration `koanf:"timeout" validate:"required,gt=0"`
}

// Defaults holds the configuration used when no environment variable
// overrides a given field.
var Defaults = AppConfig{
	Env: "prod",
	Log: LoggingConfig{
		Level: "info",
	},
	Server: ServerConfig{
		Port:     8000,
		Upstream: "8.8.8.8:53",
		Timeout:  5 * time.Second,
	},
}

// envPrefix is the prefix environment variables must carry to be picked
// up by Load, e.g. DNSFWD_LOG_LEVEL, DNSFWD_SERVER_PORT.
const envPrefix = "DNSFWD_"

// validIPPort reports whether a field holds an "ip:port" address with a
// parseable IP and a port in [1, 65535].
func validIPPort(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host == "" || port == "" {
		return false
	}
	if net.ParseIP(host) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0
}

// envLoader loads DNSFWD_-prefixed environment variables into k,
// lower-casing keys and turning DNSFWD_SERVER_PORT into "server.port" so
// it lines up with the koanf tags on AppConfig. Replaced in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "_", ".")
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader seeds k with Defaults via the structs provider. Replaced
// in tests.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(Defaults, "koanf"), nil)
}

// registerValidations wires the "ip_port" tag used on ServerConfig.
var registerValidations = func(v *validator.Validate) error {
	return v.RegisterValidation("ip_port", validIPPort)
}

// Load builds an AppConfig from Defaults overridden by DNSFWD_*
// environment variables, then validates it.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	var cfg AppConfig
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidations(validate); err != nil {
		return nil, fmt.Errorf("config: registering validations: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return &cfg, nil
}
