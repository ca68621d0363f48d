package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/alnah/pdftextfmt/internal/format"
	"github.com/alnah/pdftextfmt/internal/split"
)

// Top-level settings keys.
const (
	KeyOutputDir = "output_dir"
	KeySplitMode = "split_mode"
	KeyLogDir    = "log_dir"
	KeyParallel  = "parallel"
)

// formattingPrefix addresses keys of the [formatting] table, e.g. "formatting.break_at_dot".
const formattingPrefix = "formatting."

// Environment variable fallbacks.
const (
	EnvOutputDir = "PDFTEXTFMT_OUTPUT_DIR"
	EnvLogDir    = "PDFTEXTFMT_LOG_DIR"
)

// Defaults applied when a setting is absent.
const (
	DefaultOutputDir = "outputs"
	DefaultLogDir    = "log"
	DefaultParallel  = 4
	MaxParallel      = 16
)

// fileName is the settings file inside the configuration directory.
const fileName = "settings.toml"

// Settings holds user configuration loaded from ~/.config/pdftextfmt/settings.toml.
type Settings struct {
	OutputDir  string         `toml:"output_dir"`
	SplitMode  string         `toml:"split_mode"`
	LogDir     string         `toml:"log_dir"`
	Parallel   int            `toml:"parallel"`
	Formatting map[string]any `toml:"formatting"`
}

// Defaults returns the settings written on first run. Directories are left
// empty so that environment fallbacks still apply.
func Defaults() Settings {
	return Settings{
		SplitMode:  split.TokenFull,
		Parallel:   DefaultParallel,
		Formatting: format.DefaultOptions().ToMap(),
	}
}

// Options returns the formatting options. Missing or malformed entries take
// their defaults.
func (s Settings) Options() format.Options {
	return format.FromMap(s.Formatting)
}

// Mode returns the configured split mode. An empty value means full.
func (s Settings) Mode() (split.Mode, error) {
	if s.SplitMode == "" {
		return split.Full, nil
	}
	return split.ParseMode(s.SplitMode)
}

// Store reads and writes the settings file. Environment lookups
// (XDG_CONFIG_HOME and the directory fallbacks) go through its getenv.
type Store struct {
	getenv func(string) string
}

// NewStore returns a Store using getenv for environment lookups.
// A nil getenv means os.Getenv.
func NewStore(getenv func(string) string) *Store {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Store{getenv: getenv}
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/pdftextfmt.
func (st *Store) dir() (string, error) {
	if xdg := st.getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pdftextfmt"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pdftextfmt"), nil
}

// Path returns the full path to the settings file.
func (st *Store) Path() (string, error) {
	d, err := st.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, fileName), nil
}

// Load reads the settings file and fills unset values.
// Precedence: settings file, then environment variable, then built-in default.
// A missing file is not an error.
func (st *Store) Load() (Settings, error) {
	p, err := st.Path()
	if err != nil {
		return st.resolve(Settings{}), err
	}

	s, err := readFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return st.resolve(Settings{}), err
	}
	return st.resolve(s), nil
}

// LoadOrInit behaves like Load but first writes Defaults when no settings
// file exists yet. created reports whether the file was written.
func (st *Store) LoadOrInit() (s Settings, created bool, err error) {
	p, err := st.Path()
	if err != nil {
		return st.resolve(Settings{}), false, err
	}
	if _, statErr := os.Stat(p); errors.Is(statErr, os.ErrNotExist) {
		if err := st.Save(Defaults()); err != nil {
			return st.resolve(Settings{}), false, err
		}
		created = true
	}
	s, err = st.Load()
	return s, created, err
}

// readFile decodes a settings file as written, without fallbacks.
func readFile(p string) (Settings, error) {
	var s Settings
	if _, err := toml.DecodeFile(p, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, err
		}
		return Settings{}, fmt.Errorf("failed to read settings %s: %w", p, err)
	}
	return s, nil
}

// resolve fills unset values from the environment and built-in defaults.
func (st *Store) resolve(s Settings) Settings {
	if s.OutputDir == "" {
		s.OutputDir = st.getenv(EnvOutputDir)
	}
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}
	if s.LogDir == "" {
		s.LogDir = st.getenv(EnvLogDir)
	}
	if s.LogDir == "" {
		s.LogDir = DefaultLogDir
	}
	if s.SplitMode == "" {
		s.SplitMode = split.TokenFull
	}
	if s.Parallel == 0 {
		s.Parallel = DefaultParallel
	}
	if s.Formatting == nil {
		s.Formatting = format.DefaultOptions().ToMap()
	}
	return s
}

// Save writes the settings file, creating the directory if needed.
func (st *Store) Save(s Settings) error {
	p, err := st.Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write settings file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Keys returns every key accepted by Get and Set, sorted.
func Keys() []string {
	keys := []string{KeyOutputDir, KeySplitMode, KeyLogDir, KeyParallel}
	for _, k := range format.Keys {
		keys = append(keys, formattingPrefix+k)
	}
	slices.Sort(keys)
	return keys
}

// IsValidKey reports whether key is accepted by Get and Set.
func IsValidKey(key string) bool {
	return slices.Contains(Keys(), key)
}

// Get returns the string form of a single setting.
func (st *Store) Get(key string) (string, error) {
	s, err := st.Load()
	if err != nil {
		return "", err
	}
	return s.Get(key)
}

// Get returns the string form of a single setting of s.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case KeyOutputDir:
		return s.OutputDir, nil
	case KeySplitMode:
		return s.SplitMode, nil
	case KeyLogDir:
		return s.LogDir, nil
	case KeyParallel:
		return strconv.Itoa(s.Parallel), nil
	}

	name, ok := strings.CutPrefix(key, formattingPrefix)
	if !ok || !slices.Contains(format.Keys, name) {
		return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	v := s.Options().ToMap()[name]
	if chars, ok := v.([]string); ok {
		return strings.Join(chars, ","), nil
	}
	return fmt.Sprint(v), nil
}

// Set validates value and stores it under key in the settings file.
// Other values in the file are kept as written.
func (st *Store) Set(key, value string) error {
	p, err := st.Path()
	if err != nil {
		return err
	}

	s, err := readFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := s.Set(key, value); err != nil {
		return err
	}
	return st.Save(s)
}

// Set validates value and stores it under key in s.
func (s *Settings) Set(key, value string) error {
	switch key {
	case KeyOutputDir:
		s.OutputDir = value
		return nil
	case KeyLogDir:
		s.LogDir = value
		return nil
	case KeySplitMode:
		if _, err := split.ParseMode(value); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		s.SplitMode = value
		return nil
	case KeyParallel:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > MaxParallel {
			return fmt.Errorf("%w: parallel must be an integer between 1 and %d, got %q", ErrInvalidValue, MaxParallel, value)
		}
		s.Parallel = n
		return nil
	}

	name, ok := strings.CutPrefix(key, formattingPrefix)
	if !ok || !slices.Contains(format.Keys, name) {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}

	// Normalize through Options so the stored table is always complete.
	m := s.Options().ToMap()
	if isCharSetKey(name) {
		m[name] = format.CharList(format.ParseChars(value))
	} else {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidValue, key, value)
		}
		m[name] = b
	}
	s.Formatting = m
	return nil
}

// List returns all settings as key/value strings.
func (st *Store) List() (map[string]string, error) {
	s, err := st.Load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, k := range Keys() {
		v, err := s.Get(k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func isCharSetKey(name string) bool {
	switch name {
	case format.KeyBulletSymbols, format.KeyCustomBullets, format.KeyCustomBreakChars:
		return true
	default:
		return false
	}
}

// ResolveOutputDir picks the output directory: the flag value if set,
// then the configured directory, then DefaultOutputDir. ~ is expanded and
// the result cleaned.
func ResolveOutputDir(flagValue, configured string) string {
	d := flagValue
	if d == "" {
		d = configured
	}
	if d == "" {
		d = DefaultOutputDir
	}
	return filepath.Clean(ExpandPath(d))
}

// EnsureOutputDir creates d if missing and checks that it is a directory.
func EnsureOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	info, err := os.Stat(d)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", d)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}
