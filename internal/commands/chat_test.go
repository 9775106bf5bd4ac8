package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinematen/wabliefteru/internal/api"
	"github.com/cinematen/wabliefteru/internal/config"
	"github.com/cinematen/wabliefteru/internal/render"
	"github.com/cinematen/wabliefteru/internal/tui"
)

func TestChat_StartsTUIWithSeededConversation(t *testing.T) {
	env := setupTest(t, &api.MockWebhookClient{})

	require.NoError(t, env.run("chat"))

	require.True(t, env.tui.called)
	assert.Equal(t, 2, env.tui.dispatcher.Store().Len())
	assert.False(t, env.tui.dispatcher.Store().Pending())
	assert.Equal(t, render.ThemeWabliefteru, env.tui.opts.Style)
}

func TestChat_RejectsArguments(t *testing.T) {
	env := setupTest(t, &api.MockWebhookClient{})

	require.Error(t, env.run("chat", "extra"))
	assert.False(t, env.tui.called)
}

func TestChat_AppliesConfiguredThemes(t *testing.T) {
	env := setupTest(t, &api.MockWebhookClient{})
	t.Cleanup(func() {
		render.SetTUITheme("wabliefteru")
		tui.UpdateTheme()
	})

	cfg := config.DefaultConfig()
	cfg.TUITheme = "nord"
	cfg.Markdown.Style = "light"
	require.NoError(t, config.SaveConfig(cfg))

	require.NoError(t, env.run("chat"))

	assert.Equal(t, "nord", render.GetTUITheme().Name)
	assert.Equal(t, "light", env.tui.opts.Style)
}

func TestChat_PropagatesTUIError(t *testing.T) {
	env := setupTest(t, &api.MockWebhookClient{})
	env.tui.err = errors.New("no tty")

	err := env.run("chat")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tty")
	assert.True(t, env.mock.IsClosed(), "client is closed after the chat ends")
}
