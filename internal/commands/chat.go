package commands

import (
	"github.com/spf13/cobra"

	"github.com/cinematen/wabliefteru/internal/render"
	"github.com/cinematen/wabliefteru/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Open the full-screen chat with the Wabliefteru podcast bot.

One question is answered at a time. Ctrl+Y copies the last answer,
Ctrl+T the whole conversation. Type 'exit' or 'quit', or press Esc or
Ctrl+C to leave. Nothing is kept after the session ends.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	s, err := newSession(deps)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.cfg.TUITheme != "" && render.SetTUITheme(s.cfg.TUITheme) {
		tui.UpdateTheme()
	}

	opts := render.OptionsFromConfig(s.cfg, deps.TerminalWidth())
	return deps.TUI.RunChat(s.dispatcher, s.endpoint, opts)
}
