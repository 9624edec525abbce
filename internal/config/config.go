// Package config loads and persists ytd settings through a private viper
// instance: config.yaml in the config dir, YTD_* environment variables, an
// optional .env file and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ytd/internal/dirs"
	"ytd/internal/model"
)

// Setting keys.
const (
	KeyDownloadRoot = "download_root"
	KeyJobs         = "jobs"
	KeyQuality      = "quality"
	KeyLogLevel     = "log_level"
	KeyLogFormat    = "log_format"
	KeyNoUI         = "no_ui"
	KeyVerbose      = "verbose"
)

const (
	fileName  = "config"
	fileType  = "yaml"
	envPrefix = "YTD"
)

// flagKeys maps persistent flag names to setting keys.
var flagKeys = map[string]string{
	"out-dir":   KeyDownloadRoot,
	"jobs":      KeyJobs,
	"quality":   KeyQuality,
	"log-level": KeyLogLevel,
	"no-ui":     KeyNoUI,
	"verbose":   KeyVerbose,
}

// Settings is a snapshot of the effective configuration.
type Settings struct {
	DownloadRoot string
	Jobs         int
	Quality      string
	LogLevel     string
	LogFormat    string
	NoUI         bool
	Verbose      bool
}

// Store owns the viper instance. It is not safe for concurrent writes.
type Store struct {
	v       *viper.Viper
	fs      afero.Fs
	dir     string
	envFile string
}

// Option configures a Store.
type Option func(*Store)

// WithDir overrides the config directory (default dirs.ConfigDir()).
func WithDir(dir string) Option {
	return func(s *Store) {
		s.dir = dir
	}
}

// WithFs sets the filesystem used for the config file and path validation.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// WithEnvFile sets the dotenv file loaded by Load. Empty disables it.
func WithEnvFile(path string) Option {
	return func(s *Store) {
		s.envFile = path
	}
}

// New returns a Store with defaults applied. Call Load to read sources.
func New(opts ...Option) *Store {
	s := &Store{v: viper.New(), envFile: ".env"}
	for _, o := range opts {
		o(s)
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.dir == "" {
		if d, err := dirs.ConfigDir(); err == nil {
			s.dir = d
		}
	}

	s.v.SetFs(s.fs)
	s.v.SetConfigName(fileName)
	s.v.SetConfigType(fileType)
	if s.dir != "" {
		s.v.AddConfigPath(s.dir)
	}
	s.v.SetEnvPrefix(envPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	s.v.AutomaticEnv()

	s.v.SetDefault(KeyJobs, 4)
	s.v.SetDefault(KeyQuality, "720p,360p")
	s.v.SetDefault(KeyLogLevel, "warn")
	s.v.SetDefault(KeyLogFormat, "text")
	return s
}

// BindFlags binds the known persistent flags in fs to their keys.
// Flags absent from fs are ignored.
func (s *Store) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := s.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the dotenv file and config file. Missing files are not errors;
// a config file that cannot be parsed is.
func (s *Store) Load() error {
	if s.envFile != "" {
		if err := godotenv.Load(s.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s: %v", model.ErrInvalidConfig, s.envFile, err)
		}
	}
	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", model.ErrInvalidConfig, err)
	}
	return nil
}

// Settings returns the effective configuration.
func (s *Store) Settings() Settings {
	return Settings{
		DownloadRoot: s.v.GetString(KeyDownloadRoot),
		Jobs:         s.v.GetInt(KeyJobs),
		Quality:      s.v.GetString(KeyQuality),
		LogLevel:     s.v.GetString(KeyLogLevel),
		LogFormat:    s.v.GetString(KeyLogFormat),
		NoUI:         s.v.GetBool(KeyNoUI),
		Verbose:      s.v.GetBool(KeyVerbose),
	}
}

// Path returns the config file location.
func (s *Store) Path() string {
	if f := s.v.ConfigFileUsed(); f != "" {
		return f
	}
	return filepath.Join(s.dir, fileName+"."+fileType)
}

// ValidateDownloadRoot reports model.ErrInvalidConfig unless the configured
// download root is an existing directory.
func (s *Store) ValidateDownloadRoot() error {
	return s.checkDir(s.v.GetString(KeyDownloadRoot))
}

// SetDownloadRoot validates dir and persists it to the config file.
func (s *Store) SetDownloadRoot(dir string) error {
	dir = strings.TrimSpace(dir)
	if err := s.checkDir(dir); err != nil {
		return err
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	s.v.Set(KeyDownloadRoot, dir)
	return s.write()
}

func (s *Store) checkDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: download path is not set", model.ErrInvalidConfig)
	}
	ok, err := afero.IsDir(s.fs, dir)
	if err != nil || !ok {
		return fmt.Errorf("%w: %s is not a directory", model.ErrInvalidConfig, dir)
	}
	return nil
}

// write persists only the durable settings; flags and env stay out of the file.
func (s *Store) write() error {
	if s.dir == "" {
		return errors.New("no config directory")
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	out := viper.New()
	out.SetFs(s.fs)
	out.SetConfigType(fileType)
	for _, key := range []string{KeyDownloadRoot, KeyJobs, KeyQuality, KeyLogLevel, KeyLogFormat} {
		if s.v.InConfig(key) || key == KeyDownloadRoot {
			out.Set(key, s.v.Get(key))
		}
	}
	path := filepath.Join(s.dir, fileName+"."+fileType)
	if err := out.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
