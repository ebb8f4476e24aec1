package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the validated bot settings. It is constructed once by
// Load and never mutated afterwards; reloading produces a new instance.
type Config struct {
	MarketPairs   []string
	MaxCycles     int
	FetchInterval float64
	MinSpread     float64
	MaxRetries    int
}

// Load reads, parses and validates the TOML configuration file. An
// empty path means "not supplied" and triggers the fallback chain
// (ARBBOT_CONFIG, then ./config.toml). Every failure is reported as a
// *ConfigError; no partial Config is ever returned.
func Load(path string) (*Config, error) {
	resolved := resolveConfigPath(path)

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("config file not found: %s", resolved), Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, configErrorf("config file not found: %s", resolved)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("failed to read config (%s)", resolved), Err: err}
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("failed to parse config (%s)", resolved), Err: err}
	}

	return validateConfig(raw)
}

// validateConfig checks every required field against its type and range
// constraints. Checks run in a fixed order and the first violation is
// reported with a message naming the field.
func validateConfig(raw map[string]interface{}) (*Config, error) {
	pairs, ok := raw["market_pairs"].([]interface{})
	if !ok || len(pairs) == 0 {
		return nil, configErrorf("market_pairs must be a non-empty list")
	}

	cycles, ok := asInt(raw["max_cycles"])
	if !ok || cycles < 1 || cycles > 10000 {
		return nil, configErrorf("max_cycles must be an integer between 1 and 10000")
	}

	interval, ok := asFloat(raw["fetch_interval"])
	if !ok || interval <= 0 {
		return nil, configErrorf("fetch_interval must be a positive number")
	}

	spread, ok := asFloat(raw["min_spread"])
	if !ok || spread < 0 {
		return nil, configErrorf("min_spread must be >= 0")
	}

	retries, ok := asInt(raw["max_retries"])
	if !ok || retries < 1 || retries > 100 {
		return nil, configErrorf("max_retries must be an integer between 1 and 100")
	}

	// Pair symbols are opaque to the loader; element types are not
	// enforced.
	marketPairs := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if s, ok := p.(string); ok {
			marketPairs = append(marketPairs, s)
		} else {
			marketPairs = append(marketPairs, fmt.Sprint(p))
		}
	}

	return &Config{
		MarketPairs:   marketPairs,
		MaxCycles:     int(cycles),
		FetchInterval: interval,
		MinSpread:     spread,
		MaxRetries:    int(retries),
	}, nil
}

// asInt accepts only TOML integers. Floats are rejected so a value
// like 100.0 cannot pass an integer bound check.
func asInt(v interface{}) (int64, bool) {
	n, ok := v.(int64)
	return n, ok
}

// asFloat accepts TOML integers and floats.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
