package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/imfine/texwire/pkg/buildinfo"
	"github.com/imfine/texwire/pkg/config"
	"github.com/imfine/texwire/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "texwire"

	// envStore overrides the configured store URL.
	envStore = "TEXWIRE_STORE"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath and storeURL are bound to persistent flags.
	configPath string
	storeURL   string
	dryRun     bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "texwire wires texture files into Redshift material graphs",
		Long:         `texwire classifies texture files into shading channels and wires, traces and collects the textures of Redshift node materials.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/texwire/settings.toml)")
	root.PersistentFlags().StringVar(&c.storeURL, "store", "", "graph store URL (file://, redis://, mongodb://, mem://)")
	root.PersistentFlags().BoolVar(&c.dryRun, "dry-run", false, "run batches without saving materials")

	// Register all subcommands
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.setupCommand())
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.collectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.materialsCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings & Store
// =============================================================================

// settingsPath returns the --config flag or the XDG default.
func (c *CLI) settingsPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.Path()
}

// settings loads the settings file. A broken file is reported and the
// defaults are used, so a bad settings file never blocks a command.
func (c *CLI) settings() config.Settings {
	path, err := c.settingsPath()
	if err != nil {
		c.Logger.Warn("no settings path", "err", err)
		return config.Default()
	}
	s, err := config.Load(path)
	if err != nil {
		c.Logger.Warn("ignoring settings", "path", path, "err", err)
	}
	return s
}

// saveSettings writes s to the settings file.
func (c *CLI) saveSettings(s config.Settings) error {
	path, err := c.settingsPath()
	if err != nil {
		return err
	}
	if err := config.Save(path, s); err != nil {
		return err
	}
	c.Logger.Debug("saved settings", "path", path)
	return nil
}

// openStore opens the graph store named by --store, $TEXWIRE_STORE, the
// settings file, or the default data directory, in that order.
func (c *CLI) openStore(ctx context.Context) (store.Provider, error) {
	url, err := c.resolveStoreURL()
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)
	logger.Debug("opening store", "url", url)
	p, err := store.Open(ctx, url)
	if err != nil || !c.dryRun {
		return p, err
	}
	return store.NewDryRun(p, logger), nil
}

func (c *CLI) resolveStoreURL() (string, error) {
	if c.storeURL != "" {
		return c.storeURL, nil
	}
	if url := lookupEnv(envStore); url != "" {
		return url, nil
	}
	if url := c.settings().Store.URL; url != "" {
		return url, nil
	}
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return "file://" + dir, nil
}
