package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cinematen/wabliefteru/internal/conversation"
	apierrors "github.com/cinematen/wabliefteru/internal/errors"
	"github.com/cinematen/wabliefteru/internal/models"
	"github.com/cinematen/wabliefteru/internal/render"
	"github.com/cinematen/wabliefteru/internal/tui"
)

var gradientColors = []lipgloss.Color{
	lipgloss.Color("#22c55e"),
	lipgloss.Color("#4ade80"),
	lipgloss.Color("#86efac"),
	lipgloss.Color("#6ee7b7"),
	lipgloss.Color("#27a8e5"),
	lipgloss.Color("#38bdf8"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#16a34a"),
}

var (
	colorText     = lipgloss.Color("#ecfdf5")
	colorTextMute = lipgloss.Color("#3f6f4f")
	colorSuccess  = lipgloss.Color("#4ade80")
	colorPrimary  = lipgloss.Color("#22c55e")
	colorWarning  = lipgloss.Color("#f87171")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

var askCmd = &cobra.Command{
	Use:   "ask [vraag]",
	Short: "Ask a single question and print the answer",
	Long: `Ask the podcast bot one question and print the answer.

The question comes from the argument, from -f, or from piped stdin.
When stdout is not a terminal, or with --raw, the answer is printed
as plain text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question, ok, err := readQuestion(args)
		if err != nil {
			return err
		}
		if !ok {
			return apierrors.ErrEmptyQuestion
		}
		return runAsk(question)
	},
}

func init() {
	addQuestionFlags(askCmd)
}

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░"}

	spinnerChar := lipgloss.NewStyle().
		Foreground(gradientColors[s.frame%len(gradientColors)]).
		Bold(true).
		Render(chars[s.frame%len(chars)])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+s.frame)%len(gradientColors)])
		bar.WriteString(style.Render(barChars[(i+s.frame/2)%len(barChars)]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(s.frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner without a status line
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runAsk sends one question through a fresh conversation and prints the answer.
// A failed dispatch still prints the failure message and exits cleanly, the
// same way the chat shows it as a bubble. At debug level the underlying error
// is also written to stderr.
func runAsk(question string) error {
	if strings.TrimSpace(question) == "" {
		return apierrors.ErrEmptyQuestion
	}

	s, err := newSession(deps)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	raw := rawFlag || !deps.StdoutIsTTY()

	var spin *spinner
	if !raw {
		spin = newSpinner(deps.Stderr, models.SearchingText)
		spin.start()
	}

	result := s.dispatcher.Send(ctx, question)

	if !raw {
		if result.Outcome == conversation.OutcomeFailed {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess(fmt.Sprintf("Gevonden (%s)", result.Duration.Round(time.Millisecond)))
		}
	}
	if result.Outcome == conversation.OutcomeFailed && s.verbose() {
		fmt.Fprintln(deps.Stderr, tui.FormatError(result.Err))
	}

	text := result.Answer.Content

	if copyFlag || s.cfg.CopyToClipboard {
		copyAnswer(text, raw)
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !raw {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Antwoord bewaard in %s", outputFlag),
			))
		}
		return nil
	}

	if raw {
		fmt.Fprint(deps.Stdout, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(deps.Stdout)
		}
		return nil
	}

	bubbleWidth := deps.TerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ Wabliefteru"))

	rendered := render.Answer(text, render.OptionsFromConfig(s.cfg, contentWidth))
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))

	return nil
}

// copyAnswer puts the answer on the clipboard. Failure is only reported.
func copyAnswer(text string, quiet bool) {
	if err := deps.Clipboard(text); err != nil {
		fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorWarning).Render(
			fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
		))
		return
	}
	if !quiet {
		fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
	}
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, prefix string) string {
	if err == nil {
		return ""
	}
	return tui.FormatError(fmt.Errorf("%s: %w", prefix, err))
}
