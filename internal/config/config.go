package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/tripkit-labs/tripkit/internal/branding"
	"github.com/tripkit-labs/tripkit/internal/logger"
	"github.com/tripkit-labs/tripkit/internal/scaffold"
	"github.com/tripkit-labs/tripkit/internal/trip"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys, as written in config.yaml.
const (
	KeyVault               = "vault"
	KeyRootFolder          = "root_folder"
	KeyEnvironment         = "environment"
	KeyItineraryTemplate   = "templates.itinerary"
	KeyPackingListTemplate = "templates.packing_list"
)

// ErrUnknownKey is returned when reading or writing a key tripkit does not know.
var ErrUnknownKey = errors.New("unknown setting")

var defaults = []struct {
	key   string
	value string
}{
	{KeyVault, "."},
	{KeyRootFolder, trip.DefaultRootFolder},
	{KeyEnvironment, logger.DevelopmentEnvironment},
	{KeyItineraryTemplate, "Templates/" + trip.ItineraryFile},
	{KeyPackingListTemplate, "Templates/" + trip.PackingListFile},
}

// Keys returns every known setting key in display order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for _, d := range defaults {
		keys = append(keys, d.key)
	}
	return keys
}

func knownKey(key string) bool {
	for _, d := range defaults {
		if d.key == key {
			return true
		}
	}
	return false
}

// Settings is the resolved configuration for one command invocation.
type Settings struct {
	Vault       string           `mapstructure:"vault"`
	RootFolder  string           `mapstructure:"root_folder"`
	Environment string           `mapstructure:"environment"`
	Templates   TemplateSettings `mapstructure:"templates"`
}

// TemplateSettings holds vault-relative template document paths. An empty
// path disables the template for that artifact.
type TemplateSettings struct {
	Itinerary   string `mapstructure:"itinerary"`
	PackingList string `mapstructure:"packing_list"`
}

// TemplateSources maps the configured template paths to artifact labels.
func (s Settings) TemplateSources() scaffold.Templates {
	out := scaffold.Templates{}
	if p := strings.TrimSpace(s.Templates.Itinerary); p != "" {
		out[trip.LabelItinerary] = scaffold.TemplateSource{Path: p}
	}
	if p := strings.TrimSpace(s.Templates.PackingList); p != "" {
		out[trip.LabelPackingList] = scaffold.TemplateSource{Path: p}
	}
	return out
}

// Dir returns the tripkit config directory. TRIPKIT_HOME overrides the
// default of ~/.tripkit.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Store reads settings from one config file layered over defaults and
// TRIPKIT_* environment variables.
type Store struct {
	v    *viper.Viper
	path string
}

// Load opens the default config file.
func Load() (*Store, error) {
	return LoadFile(FilePath())
}

// LoadFile opens the config file at path. A missing file is not an error;
// an existing file must pass schema validation.
func LoadFile(path string) (*Store, error) {
	v := viper.New()
	for _, d := range defaults {
		v.SetDefault(d.key, d.value)
	}
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	exists, err := fileExists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		result, err := ValidateFile(path)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, &InvalidError{Path: path, Issues: result.Issues}
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	return &Store{v: v, path: path}, nil
}

// Path returns the file this store reads and writes.
func (s *Store) Path() string { return s.path }

// Settings decodes the current values.
func (s *Store) Settings() (Settings, error) {
	var out Settings
	if err := s.v.Unmarshal(&out); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if strings.TrimSpace(out.RootFolder) == "" {
		out.RootFolder = trip.DefaultRootFolder
	}
	return out, nil
}

// Get returns the effective value of key.
func (s *Store) Get(key string) (string, error) {
	if !knownKey(key) {
		return "", fmt.Errorf("%w %q (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	return s.v.GetString(key), nil
}

// Set writes one key to the config file. Only explicitly set keys are
// persisted; defaults and environment overrides are never written.
func (s *Store) Set(key, value string) error {
	if !knownKey(key) {
		return fmt.Errorf("%w %q (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}

	file, err := s.fileOnly()
	if err != nil {
		return err
	}
	file.Set(key, value)

	result, err := validateValue(file.AllSettings())
	if err != nil {
		return err
	}
	if !result.Valid {
		return &InvalidError{Path: s.path, Issues: result.Issues}
	}

	if err := s.write(file); err != nil {
		return err
	}
	s.v.Set(key, value)
	return nil
}

// WriteDefaults creates the config file populated with every default when
// it does not exist yet. It reports whether the file was created.
func (s *Store) WriteDefaults() (bool, error) {
	exists, err := fileExists(s.path)
	if err != nil || exists {
		return false, err
	}

	file := viper.New()
	file.SetConfigType(fileType)
	for _, d := range defaults {
		file.Set(d.key, d.value)
	}
	if err := s.write(file); err != nil {
		return false, err
	}
	return true, nil
}

// fileOnly returns a viper instance holding just the config file contents.
func (s *Store) fileOnly() (*viper.Viper, error) {
	file := viper.New()
	file.SetConfigFile(s.path)
	file.SetConfigType(fileType)

	exists, err := fileExists(s.path)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := file.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", s.path, err)
		}
	}
	return file, nil
}

func (s *Store) write(file *viper.Viper) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	if err := file.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing config file %s: %w", s.path, err)
	}
	return nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking config file %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("config file %s is a directory", path)
	}
	return true, nil
}
