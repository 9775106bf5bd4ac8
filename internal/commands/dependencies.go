package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/cinematen/wabliefteru/internal/api"
	"github.com/cinematen/wabliefteru/internal/conversation"
	"github.com/cinematen/wabliefteru/internal/render"
	"github.com/cinematen/wabliefteru/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(dispatcher *conversation.Dispatcher, endpoint string, opts render.Options) error
}

// Dependencies holds the external dependencies for the commands.
// Tests replace them to avoid the network, the clipboard and the terminal.
type Dependencies struct {
	// NewClient builds the webhook client for the resolved endpoint.
	NewClient func(endpoint string, opts ...api.ClientOption) (api.WebhookClientInterface, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard writes text to the system clipboard.
	Clipboard func(text string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsPipe reports whether a question can be read from stdin.
	StdinIsPipe func() bool
	// StdoutIsTTY decides between decorated and raw answers.
	StdoutIsTTY func() bool
	// TerminalWidth returns the width used to wrap answers.
	TerminalWidth func() int
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(dispatcher *conversation.Dispatcher, endpoint string, opts render.Options) error {
	return tui.RunChat(dispatcher, endpoint, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: func(endpoint string, opts ...api.ClientOption) (api.WebhookClientInterface, error) {
			client, err := api.NewClient(endpoint, opts...)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		TUI:           &DefaultTUI{},
		Clipboard:     clipboard.WriteAll,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		StdinIsPipe:   stdinIsPipe,
		StdoutIsTTY:   isStdoutTTY,
		TerminalWidth: getTerminalWidth,
	}
}

// deps is replaced in tests
var deps = NewDependencies()

func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
