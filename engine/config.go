package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the TOML-serializable engine configuration, normally read from a
// corvid.toml next to the binary. Fields absent from the file keep their
// DefaultConfig value.
type Config struct {
	Hash         int           `toml:"hash"`          // transposition table size, in MB
	Threads      int           `toml:"threads"`       // number of parallel search workers, see SearchParallel
	MoveOverhead time.Duration `toml:"move_overhead"` // time reserved per move for GUI/network lag
	LogLevel     string        `toml:"log_level"`      // op/go-logging level name, e.g. "INFO", "DEBUG"
	AnalyseMode  bool          `toml:"analyse_mode"`
}

// DefaultConfig is the configuration used when no corvid.toml is found.
func DefaultConfig() Config {
	return Config{
		Hash:         DefaultHashTableSizeMB,
		Threads:      1,
		MoveOverhead: 50 * time.Millisecond,
		LogLevel:     "INFO",
	}
}

// LoadConfig reads and decodes a corvid.toml file, starting from DefaultConfig
// so that missing keys fall back to their default rather than the zero value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		opLog.Errorf("cannot load config %s: %v", path, err)
		return cfg, err
	}
	opLog.Infof("loaded config from %s: hash=%dMB threads=%d", path, cfg.Hash, cfg.Threads)
	return cfg, nil
}

// Options returns the engine Options this configuration produces.
func (c Config) Options() Options {
	return Options{AnalyseMode: c.AnalyseMode}
}

// SetOption mutates engine configuration at runtime; UCI's "setoption"
// command calls it. It handles "Clear Hash", "Hash" and "UCI_AnalyseMode";
// a Config read by LoadConfig is not applied through it.
func (eng *Engine) SetOption(name, value string) error {
	switch name {
	case "Clear Hash":
		GlobalHashTable.Clear()
		return nil
	case "Hash":
		mb, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: invalid Hash value %q: %v", ErrConfiguration, value, err)
		}
		GlobalHashTable = NewCache(mb)
		return nil
	case "UCI_AnalyseMode":
		mode, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: invalid UCI_AnalyseMode value %q: %v", ErrConfiguration, value, err)
		}
		eng.Options.AnalyseMode = mode
		return nil
	default:
		return fmt.Errorf("%w: unhandled option %s", ErrConfiguration, name)
	}
}
