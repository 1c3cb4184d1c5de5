package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/courtside/pkg/sqlite"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend    string         `yaml:"backend"`
	DataDir    string         `yaml:"data_dir,omitempty"`
	LogLevel   string         `yaml:"log_level"`
	LogFormat  string         `yaml:"log_format"`
	ListenAddr string         `yaml:"listen_addr"`
	HomeName   string         `yaml:"home_name"`
	AwayName   string         `yaml:"away_name"`
	Roster     []types.Player `yaml:"roster"`
}

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize courtside storage",
		Long: "Create the configuration and data directories, write a default\n" +
			"config.yaml if none exists, then create the match database.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}
}

func runInit(cmd *cobra.Command, flags *rootFlags) error {
	s, err := loadSettings(flags)
	if err != nil {
		return systemError("load config", err)
	}

	if err := os.MkdirAll(s.ConfigDir, 0o755); err != nil {
		return systemError("create config directory", err)
	}

	configPath := filepath.Join(s.ConfigDir, configFileExt)
	written, err := writeConfigIfMissing(configPath, s, flags.dataDir)
	if err != nil {
		return systemError("write config", err)
	}

	store := sqlite.NewBackend()
	if err := store.Attach(s.storeConfig()); err != nil {
		return systemError("initialize storage", err)
	}
	if err := store.Detach(); err != nil {
		return systemError("finalize storage", err)
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	}
	fmt.Fprintf(out, "Match database ready in %s\n", s.DataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml from s if the file does not
// exist. An existing file is left alone and written is false.
func writeConfigIfMissing(path string, s settings, dataDir string) (written bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:    s.Backend,
		DataDir:    dataDir,
		LogLevel:   s.LogLevel,
		LogFormat:  s.LogFormat,
		ListenAddr: s.ListenAddr,
		HomeName:   s.Teams.Home,
		AwayName:   s.Teams.Away,
		Roster:     s.Roster,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# courtside configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
