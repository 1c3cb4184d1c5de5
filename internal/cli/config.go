package cli

// Config loading for the courtside CLI.

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/courtside/internal/paths"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyLogLevel   = "log_level"
	cfgKeyLogFormat  = "log_format"
	cfgKeyListenAddr = "listen_addr"
	cfgKeyHomeName   = "home_name"
	cfgKeyAwayName   = "away_name"
	cfgKeyRoster     = "roster"

	defaultListenAddr = "localhost:8080"
)

// settings is the resolved configuration of one invocation.
type settings struct {
	ConfigDir  string
	DataDir    string
	Backend    string
	LogLevel   string
	LogFormat  string
	ListenAddr string
	Teams      types.Teams
	Roster     types.Roster
}

// loadSettings reads config.yaml from the resolved config directory and
// applies directory precedence. A missing config.yaml is not an error.
func loadSettings(flags *rootFlags) (settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetDefault(cfgKeyHomeName, string(types.TeamHome))
	v.SetDefault(cfgKeyAwayName, string(types.TeamAway))
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	s := settings{
		ConfigDir:  configDir,
		DataDir:    dataDir,
		Backend:    v.GetString(cfgKeyBackend),
		LogLevel:   v.GetString(cfgKeyLogLevel),
		LogFormat:  v.GetString(cfgKeyLogFormat),
		ListenAddr: v.GetString(cfgKeyListenAddr),
		Teams:      types.Teams{Home: v.GetString(cfgKeyHomeName), Away: v.GetString(cfgKeyAwayName)},
		Roster:     types.DefaultRoster(),
	}
	if v.IsSet(cfgKeyRoster) {
		var roster types.Roster
		if err := v.UnmarshalKey(cfgKeyRoster, &roster); err != nil {
			return settings{}, fmt.Errorf("read roster: %w", err)
		}
		if err := roster.Validate(); err != nil {
			return settings{}, fmt.Errorf("roster in %s: %w", filepath.Join(configDir, configFileExt), err)
		}
		s.Roster = roster
	}
	return s, nil
}

// storeConfig returns the backend configuration for the match database.
func (s settings) storeConfig() types.Config {
	return types.Config{Backend: s.Backend, DataDir: s.DataDir}
}

// newLogger builds the process logger from log_level and log_format.
func (s settings) newLogger(out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	logger.SetLevel(level)

	switch s.LogFormat {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("log_format: unknown format %q", s.LogFormat)
	}
	return logger, nil
}
