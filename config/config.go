// Package config loads process configuration for pirserver: the set of
// lanes to serve, where their shard directories and CRS sidecars live,
// and the reload debounce window. YAML is the file format, with
// environment variables (optionally loaded from a ".env" file) able to
// override the handful of settings an operator tunes per deployment
// without editing the checked-in file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/blocklane/pir/db"
	"github.com/blocklane/pir/pir"
	"github.com/blocklane/pir/rlwe"
)

// LaneConfig names one served lane and where its on-disk state lives.
// The lane's row count and record width come from its CrsMetadata
// sidecar at ShardDir/CrsPath, not from this file — only the RLWE
// parameters and version below are shared across every lane.
type LaneConfig struct {
	Name     string `yaml:"name"`
	ShardDir string `yaml:"shard_dir"`
	CrsPath  string `yaml:"crs_path"`
}

// Config is the unified configuration for one pirserver process.
type Config struct {
	Version        uint16                 `yaml:"version"`
	RlweParams     rlwe.ParametersLiteral `yaml:"rlwe_params"`
	Lanes          []LaneConfig           `yaml:"lanes"`
	LoadMode       string                 `yaml:"load_mode"`
	ReloadDebounce string                 `yaml:"reload_debounce"`
	LogLevel       string                 `yaml:"log_level"`
}

// defaults mirrors the fields a freshly zero-valued Config leaves unset.
func defaults() Config {
	return Config{
		LoadMode:       "memory",
		ReloadDebounce: "1s",
		LogLevel:       "info",
	}
}

// Load reads the YAML file at path, then applies any PIR_-prefixed
// environment variable overrides — loading envFile first (if it exists;
// a missing .env file is not an error, matching godotenv's own
// recommended use for optional local overrides).
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	}

	cfg := defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if len(cfg.Lanes) == 0 {
		return nil, fmt.Errorf("config: %s declares no lanes", path)
	}
	for _, l := range cfg.Lanes {
		if l.Name == "" || l.ShardDir == "" {
			return nil, fmt.Errorf("config: lane %+v missing name or shard_dir", l)
		}
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PIR_LOAD_MODE"); v != "" {
		cfg.LoadMode = v
	}
	if v := os.Getenv("PIR_RELOAD_DEBOUNCE"); v != "" {
		cfg.ReloadDebounce = v
	}
	if v := os.Getenv("PIR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// ReloadDebounceDuration parses ReloadDebounce, accepting either a Go
// duration string ("500ms") or a bare integer number of seconds.
func (c Config) ReloadDebounceDuration() (time.Duration, error) {
	if d, err := time.ParseDuration(c.ReloadDebounce); err == nil {
		return d, nil
	}
	if secs, err := strconv.Atoi(c.ReloadDebounce); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("config: invalid reload_debounce %q", c.ReloadDebounce)
}

// LoadModeValue maps the configured string to db.LoadMode.
func (c Config) LoadModeValue() (db.LoadMode, error) {
	switch c.LoadMode {
	case "", "memory":
		return db.ReadIntoMemory, nil
	case "mmap":
		return db.Mmap, nil
	default:
		return 0, fmt.Errorf("config: unknown load_mode %q", c.LoadMode)
	}
}

// RlweParameters validates the shared RLWE literal once at process
// startup, not per lane.
func (c Config) RlweParameters() (rlwe.Parameters, error) {
	params, err := rlwe.NewParametersFromLiteral(c.RlweParams)
	if err != nil {
		return rlwe.Parameters{}, fmt.Errorf("config: rlwe_params: %w", err)
	}
	return params, nil
}

// PirParamsFor builds the PirParams for one lane: the shared RLWE
// parameters and version, combined with the row count and record width
// recorded in that lane's own CrsMetadata sidecar.
func (c Config) PirParamsFor(rlweParams rlwe.Parameters, crs db.CrsMetadata) (pir.PirParams, error) {
	if crs.PirParamsVersion != c.Version {
		return pir.PirParams{}, fmt.Errorf("config: lane %s crs version %d does not match configured version %d", crs.Lane, crs.PirParamsVersion, c.Version)
	}
	return pir.NewPirParams(rlweParams, c.Version, crs.EntryCount, crs.EntrySize)
}
