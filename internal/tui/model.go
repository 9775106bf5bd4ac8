package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cinematen/wabliefteru/internal/conversation"
	"github.com/cinematen/wabliefteru/internal/models"
	"github.com/cinematen/wabliefteru/internal/render"
)

const feedbackTimeout = 2 * time.Second

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// storeEventMsg carries a conversation change into the update loop
	storeEventMsg struct {
		event conversation.Event
	}
	// dispatchDoneMsg is returned by the command running Dispatcher.Send
	dispatchDoneMsg struct {
		result conversation.Result
	}
	feedbackClearMsg struct{}
)

// Model represents the chat screen state
type Model struct {
	dispatcher *conversation.Dispatcher
	store      *conversation.Store
	endpoint   string
	renderOpts render.Options

	// ctx bounds in-flight questions; cancel runs when the screen quits
	ctx    context.Context
	cancel context.CancelFunc

	copyFn func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	messages       []models.Message
	loading        bool
	ready          bool
	feedback       string
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates the chat screen for a dispatcher. Quitting cancels ctx
// so that a pending question is abandoned.
func NewChatModel(ctx context.Context, dispatcher *conversation.Dispatcher, endpoint string, opts render.Options) Model {
	ta := textarea.New()
	ta.Placeholder = models.InputPlaceholder
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	ctx, cancel := context.WithCancel(ctx)
	store := dispatcher.Store()

	return Model{
		dispatcher: dispatcher,
		store:      store,
		endpoint:   endpoint,
		renderOpts: opts,
		ctx:        ctx,
		cancel:     cancel,
		copyFn:     clipboard.WriteAll,
		textarea:   ta,
		spinner:    s,
		messages:   store.Messages(),
		loading:    store.Pending(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

func isExitCommand(input string) bool {
	switch input {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit

		case "ctrl+y":
			return m.copyLastAnswer()

		case "ctrl+t":
			return m.copyTranscript()

		case "enter":
			// One question at a time
			if m.loading || m.store.Pending() {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				m.textarea.Reset()
				return m, nil
			}
			if isExitCommand(input) {
				m.cancel()
				return m, tea.Quit
			}

			question := m.textarea.Value()
			m.textarea.Reset()
			m.loading = true
			m.animationFrame = 0

			return m, tea.Batch(
				m.sendMessage(question),
				m.spinner.Tick,
				animationTick(),
			)
		}

	case storeEventMsg:
		switch msg.event.Kind {
		case conversation.EventAppended:
			m.messages = m.store.Messages()
		case conversation.EventPending:
			m.loading = msg.event.Pending
		}
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case dispatchDoneMsg:
		m.messages = m.store.Messages()
		m.loading = m.store.Pending()
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case feedbackClearMsg:
		m.feedback = ""
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// sendMessage runs one dispatch off the update loop
func (m Model) sendMessage(question string) tea.Cmd {
	dispatcher := m.dispatcher
	ctx := m.ctx
	return func() tea.Msg {
		return dispatchDoneMsg{result: dispatcher.Send(ctx, question)}
	}
}

func (m Model) copyLastAnswer() (tea.Model, tea.Cmd) {
	last, ok := m.store.LastAssistant()
	if !ok {
		return m, nil
	}
	if err := m.copyFn(last.Content); err != nil {
		m.feedback = fmt.Sprintf("Kopiëren mislukt: %v", err)
	} else {
		m.feedback = "Antwoord gekopieerd"
	}
	return m, clearFeedback(feedbackTimeout)
}

func (m Model) copyTranscript() (tea.Model, tea.Cmd) {
	transcript := conversation.ExportMarkdown(models.AppTitle, m.store.Messages())
	if err := m.copyFn(transcript); err != nil {
		m.feedback = fmt.Sprintf("Kopiëren mislukt: %v", err)
	} else {
		m.feedback = "Gesprek gekopieerd"
	}
	return m, clearFeedback(feedbackTimeout)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Even geduld...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{titleStyle.Render("✦ " + models.AppTitle)}
	if host := endpointHost(m.endpoint); host != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(host),
		)
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	sections = append(sections, messagesPanel)

	// Input
	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("Jij"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// Status bar
	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("  "+m.feedback))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLoadingAnimation renders the animated searching indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		bar.WriteString(style.Render(barChars[(i+frame/2)%len(barChars)]))
	}

	text := loadingStyle.Render(" " + models.SearchingText + " ")

	return fmt.Sprintf("%s %s %s", spin, bar.String(), text)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Verstuur"},
		{"Esc", "Stop"},
		{"↑↓", "Scroll"},
		{"Ctrl+Y", "Kopieer antwoord"},
		{"Ctrl+T", "Kopieer gesprek"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, statusDescStyle.Render("  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport rebuilds the viewport content from the message snapshot
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	areaWidth := m.viewport.Width - 2
	bubbleWidth := areaWidth * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = areaWidth
	}

	for i, msg := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			label := userLabelStyle.Render("Jij ⬤")
			bubble := userBubbleStyle.Width(min(bubbleWidth, lipgloss.Width(msg.Content)+4)).Render(msg.Content)
			content.WriteString(lipgloss.PlaceHorizontal(areaWidth, lipgloss.Right, label))
			content.WriteString("\n")
			content.WriteString(lipgloss.PlaceHorizontal(areaWidth, lipgloss.Right, bubble))
		} else {
			label := assistantLabelStyle.Render("✦ Wabliefteru")
			rendered := render.Answer(msg.Content, m.renderOpts.WithWidth(bubbleWidth-4))
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// endpointHost returns the host part of the webhook URL for the header
func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return u.Host
}

// RunChat starts the chat screen and blocks until the user quits
func RunChat(dispatcher *conversation.Dispatcher, endpoint string, opts render.Options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewChatModel(ctx, dispatcher, endpoint, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	unsubscribe := dispatcher.Store().Subscribe(func(ev conversation.Event) {
		p.Send(storeEventMsg{event: ev})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
