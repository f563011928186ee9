package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/files"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/notes"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/render"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/tracker"
)

const (
	// EnvPrefix prefixes every environment override, e.g. TTSUM_ADDR.
	EnvPrefix = "TTSUM"
	// VaultFileName is the per-vault configuration file.
	VaultFileName = ".ttsum.yaml"
)

// Config is the merged ttsum configuration.
type Config struct {
	Vault      string `mapstructure:"vault" yaml:"vault"`
	Language   string `mapstructure:"language" yaml:"language"`
	SectionEnd string `mapstructure:"section_end" yaml:"section_end"`
	Addr       string `mapstructure:"addr" yaml:"addr"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	Color      string `mapstructure:"color" yaml:"color"`
	BarWidth   int    `mapstructure:"bar_width" yaml:"bar_width"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Language:   notes.DefaultLanguage,
		SectionEnd: tracker.SectionEndHeading.String(),
		Addr:       "127.0.0.1:8420",
		LogLevel:   "info",
		Color:      "auto",
		BarWidth:   40,
	}
}

// GlobalPath returns ~/.config/ttsum/config.yaml.
func GlobalPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ttsum", "config.yaml")
}

// VaultPath returns the configuration file inside vault.
func VaultPath(vault string) string {
	return filepath.Join(vault, VaultFileName)
}

// Overrides are command-line values applied over every other source.
// Empty fields leave the loaded value alone.
type Overrides struct {
	LogLevel   string
	Color      string
	SectionEnd string
}

func (o Overrides) apply(cfg *Config) {
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Color != "" {
		cfg.Color = o.Color
	}
	if o.SectionEnd != "" {
		cfg.SectionEnd = o.SectionEnd
	}
}

// Load merges defaults, the global file, the vault file, TTSUM_*
// environment variables and overrides, later sources winning, and validates
// the result. An explicit path replaces the global file and must exist.
// vault may be empty, in which case the vault is resolved from the
// environment.
func Load(explicit, vault string, overrides Overrides) (Config, error) {
	cfg := Default()

	if explicit != "" {
		if err := loadFile(explicit, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", explicit, err)
		}
	} else if global := GlobalPath(); global != "" {
		if err := loadFile(global, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load config %s: %w", global, err)
		}
	}

	resolved, err := resolveVault(vault, cfg.Vault)
	if err != nil {
		return cfg, err
	}

	if err := loadFile(VaultPath(resolved), &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load vault config: %w", err)
	}
	applyEnv(&cfg)
	overrides.apply(&cfg)
	cfg.Vault = resolved

	return cfg, cfg.Validate()
}

// resolveVault picks the vault from the flag, TTSUM_VAULT, the config
// file and finally the working directory.
func resolveVault(flag, fromFile string) (string, error) {
	if flag != "" {
		return files.ExpandHome(flag)
	}
	if env := strings.TrimSpace(os.Getenv(files.VaultEnv)); env != "" {
		return files.ExpandHome(env)
	}
	if fromFile != "" {
		return files.ExpandHome(fromFile)
	}
	return files.ResolveVaultPath()
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

// applyEnv copies TTSUM_* variables over cfg. TTSUM_VAULT is handled by
// resolveVault.
func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"language", "section_end", "addr", "log_level", "color", "bar_width"} {
		_ = v.BindEnv(key)
	}

	if s := v.GetString("language"); s != "" {
		cfg.Language = s
	}
	if s := v.GetString("section_end"); s != "" {
		cfg.SectionEnd = s
	}
	if s := v.GetString("addr"); s != "" {
		cfg.Addr = s
	}
	if s := v.GetString("log_level"); s != "" {
		cfg.LogLevel = s
	}
	if s := v.GetString("color"); s != "" {
		cfg.Color = s
	}
	if n := v.GetInt("bar_width"); n > 0 {
		cfg.BarWidth = n
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Language) == "" {
		return errors.New("language must not be empty")
	}
	if _, err := tracker.ParseSectionEnd(c.SectionEnd); err != nil {
		return err
	}
	if _, err := render.ParseColorMode(c.Color); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.BarWidth <= 0 {
		return fmt.Errorf("bar_width must be positive, got %d", c.BarWidth)
	}
	return nil
}

// End returns the parsed section end policy.
func (c Config) End() tracker.SectionEnd {
	end, _ := tracker.ParseSectionEnd(c.SectionEnd)
	return end
}

// ColorMode returns the parsed terminal colour mode.
func (c Config) ColorMode() render.ColorMode {
	mode, _ := render.ParseColorMode(c.Color)
	return mode
}

// ParseLevel maps debug|info|warn|error onto a slog level.
func ParseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", value)
	}
	return level, nil
}
