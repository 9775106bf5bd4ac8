package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/cinematen/wabliefteru/internal/config"
	"github.com/cinematen/wabliefteru/internal/render"
)

var configForceFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
	Long: `Inspect or create ~/.wabliefteru/config.json.

The webhook URL is resolved from, in order: --webhook,
WABLIEFTERU_WEBHOOK_URL, VITE_WEBHOOK_URL (also read from ./.env),
webhook_url in the config file, and the built-in default.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(configForceFlag)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForceFlag, "force", false, "Overwrite an existing configuration file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

// effectiveConfig is what config show prints
type effectiveConfig struct {
	Endpoint       string                `json:"endpoint"`
	EndpointSource config.EndpointSource `json:"endpoint_source"`
	ConfigFile     string                `json:"config_file"`
	LogFile        string                `json:"log_file"`
	Config         config.Config         `json:"config"`

	// MarkdownStyle is the style actually used, after GLAMOUR_STYLE and NO_COLOR
	MarkdownStyle       string   `json:"markdown_style"`
	MarkdownStyleIsFile bool     `json:"markdown_style_is_file"`
	MarkdownStyles      []string `json:"markdown_styles"`
	TUIThemes           []string `json:"tui_themes"`
}

func runConfigShow() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	endpoint, source, err := config.ResolveWebhookURL(webhookFlag, cfg)
	if err != nil {
		return err
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = "~/.wabliefteru/wabliefteru.log"
	}

	style := render.OptionsFromConfig(cfg, 0).Style

	data, err := json.Marshal(effectiveConfig{
		Endpoint:            endpoint,
		EndpointSource:      source,
		ConfigFile:          configPath,
		LogFile:             logPath,
		Config:              cfg,
		MarkdownStyle:       style,
		MarkdownStyleIsFile: !render.IsBuiltinStyle(style),
		MarkdownStyles:      render.ThemeNames(),
		TUIThemes:           render.TUIThemeNames(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out := pretty.Pretty(data)
	if deps.StdoutIsTTY() && os.Getenv("NO_COLOR") == "" {
		out = pretty.Color(out, nil)
	}
	_, err = deps.Stdout.Write(out)
	return err
}

func runConfigInit(force bool) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := config.SaveConfig(config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote default configuration to %s\n", path)
	return nil
}
