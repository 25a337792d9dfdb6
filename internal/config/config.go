// Package config loads the settings shared by the CLI and the servers.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/sapgui/pkg/domain"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "SAPGUI_"

// Snapshot backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full runtime configuration.
type Config struct {
	Application string         `mapstructure:"application"`
	Log         LogConfig      `mapstructure:"log"`
	HTTP        HTTPConfig     `mapstructure:"http"`
	MCP         MCPConfig      `mapstructure:"mcp"`
	Snapshots   SnapshotConfig `mapstructure:"snapshots"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Lock        LockConfig     `mapstructure:"lock"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type MCPConfig struct {
	Transport string `mapstructure:"transport"`
	Port      int    `mapstructure:"port"`
}

type SnapshotConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
	// EncryptionKey seals stored snapshots when set (hex or base64, 32 bytes).
	EncryptionKey string `mapstructure:"encryption_key"`
	// FallbackKeys open snapshots sealed before a key rotation.
	FallbackKeys []string `mapstructure:"fallback_keys"`
	// Mask lists patterns of session field names replaced before storing.
	Mask []string `mapstructure:"mask"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LockConfig enables the redis lock that keeps two processes off the same GUI.
type LockConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Application: domain.DefaultApplication,
		Log:         LogConfig{Level: "info", Format: "text"},
		HTTP:        HTTPConfig{Addr: ":8080"},
		MCP:         MCPConfig{Transport: "stdio", Port: 8080},
		Snapshots:   SnapshotConfig{Backend: BackendFile, Dir: ".sapgui/snapshots"},
		Redis:       RedisConfig{Addr: "localhost:6379", Prefix: "sapgui:snapshot:"},
		Lock:        LockConfig{TTL: 30 * time.Second},
	}
}

// Load reads path over the defaults, then applies SAPGUI_* variables.
// An empty path skips the file. The format follows the extension: .yaml,
// .yml, .json or .toml.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := decode(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config decode failed (%s): %w", path, err)
		}
	}

	if err := decode(fromEnv(os.Environ()), &cfg); err != nil {
		return Config{}, fmt.Errorf("config env override failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Validate checks the fields that have a closed set of values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Application) == "" {
		return fmt.Errorf("config missing application")
	}
	switch c.Snapshots.Backend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown snapshot backend %q", c.Snapshots.Backend)
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("unknown mcp transport %q", c.MCP.Transport)
	}
	if c.Lock.Enabled && c.Lock.TTL <= 0 {
		return fmt.Errorf("lock ttl must be positive")
	}
	return nil
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	raw := make(map[string]any)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return raw, nil
}

// fromEnv turns SAPGUI_REDIS_ADDR=x into {"redis": {"addr": "x"}}.
// Only the first underscore after the prefix separates section from key.
func fromEnv(environ []string) map[string]any {
	out := make(map[string]any)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if name == "" {
			continue
		}
		section, field, nested := strings.Cut(name, "_")
		if !nested {
			out[name] = value
			continue
		}
		m, _ := out[section].(map[string]any)
		if m == nil {
			m = make(map[string]any)
			out[section] = m
		}
		m[field] = value
	}
	return out
}

func decode(input map[string]any, out *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			durationFromInt,
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// durationFromInt reads bare numbers as seconds.
func durationFromInt(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return data, nil
}
