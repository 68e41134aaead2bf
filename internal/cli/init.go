package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/spectro/internal/paths"
	"github.com/mesh-intelligence/spectro/internal/sqlite"
	"github.com/mesh-intelligence/spectro/pkg/types"
)

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir,omitempty"`
	APIURL   string `yaml:"api_url"`
	Language string `yaml:"language"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize spectro configuration and storage",
		Long: "Create the configuration and data directories, write config.yaml\n" +
			"from the given flags when it is missing, and initialize the local database.",
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return systemError("resolve config dir: %w", err)
	}
	if err := ensureConfigDir(configDir); err != nil {
		return systemError("create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath); err != nil {
		return systemError("write config: %w", err)
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	kv := sqlite.NewBackend()
	if err := kv.Attach(cfg); err != nil {
		return systemError("initialize storage: %w", err)
	}
	if err := kv.Detach(); err != nil {
		return systemError("finalize storage: %w", err)
	}

	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), cfg)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Spectro initialized successfully")
	fmt.Fprintf(out, "  config: %s\n", configPath)
	fmt.Fprintf(out, "  data:   %s\n", cfg.DataDir)
	fmt.Fprintf(out, "  api:    %s\n", cfg.EffectiveAPIURL())
	return nil
}

// writeConfigIfMissing creates config.yaml from the global flags if the file
// does not exist. An existing file is left untouched.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Backend:  types.BackendSQLite,
		DataDir:  flags.dataDir,
		APIURL:   firstNonEmpty(flags.apiURL, types.DefaultAPIURL),
		Language: firstNonEmpty(flags.language, "ru"),
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
