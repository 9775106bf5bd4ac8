package commands

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/cinematen/wabliefteru/internal/api"
	"github.com/cinematen/wabliefteru/internal/config"
	"github.com/cinematen/wabliefteru/internal/conversation"
	"github.com/cinematen/wabliefteru/internal/render"
)

// fakeTUI records the chat start instead of taking over the terminal
type fakeTUI struct {
	called     bool
	dispatcher *conversation.Dispatcher
	endpoint   string
	opts       render.Options
	err        error
}

func (f *fakeTUI) RunChat(d *conversation.Dispatcher, endpoint string, opts render.Options) error {
	f.called = true
	f.dispatcher = d
	f.endpoint = endpoint
	f.opts = opts
	return f.err
}

type testEnv struct {
	home     string
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	tui      *fakeTUI
	mock     *api.MockWebhookClient
	copied   []string
	endpoint string
	tty      bool
	pipe     string
}

// setupTest isolates HOME, the working directory and the environment, and
// swaps the package dependencies for fakes.
func setupTest(t *testing.T, mock *api.MockWebhookClient) *testEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GLAMOUR_STYLE", "")
	t.Setenv("NO_COLOR", "")
	t.Setenv(config.EnvWebhookURL, "")
	t.Setenv(config.EnvViteWebhookURL, "")
	t.Chdir(home)

	env := &testEnv{
		home:   home,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		tui:    &fakeTUI{},
		mock:   mock,
	}

	old := deps
	deps = &Dependencies{
		NewClient: func(endpoint string, opts ...api.ClientOption) (api.WebhookClientInterface, error) {
			env.endpoint = endpoint
			return mock, nil
		},
		TUI: env.tui,
		Clipboard: func(text string) error {
			env.copied = append(env.copied, text)
			return nil
		},
		Stdin:         strings.NewReader(""),
		Stdout:        env.stdout,
		Stderr:        env.stderr,
		StdinIsPipe:   func() bool { return env.pipe != "" },
		StdoutIsTTY:   func() bool { return env.tty },
		TerminalWidth: func() int { return 80 },
	}

	resetFlags()
	t.Cleanup(func() {
		deps = old
		resetFlags()
	})

	return env
}

// run executes the root command with args
func (e *testEnv) run(args ...string) error {
	if e.pipe != "" {
		deps.Stdin = strings.NewReader(e.pipe)
	}
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func resetFlags() {
	webhookFlag = ""
	logLevelFlag = ""
	logFileFlag = ""
	outputFlag = ""
	fileFlag = ""
	rawFlag = false
	copyFlag = false
	configForceFlag = false
	_ = rootCmd.Flags().Set("version", "false")
}

// unsetEnv removes key for the rest of the test; t.Setenv restores it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}
