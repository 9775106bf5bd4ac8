// Package commands provides CLI commands for wabliefteru.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	webhookFlag  string
	logLevelFlag string
	logFileFlag  string

	// Question flags, shared by the root and ask commands
	outputFlag string
	fileFlag   string
	rawFlag    bool
	copyFlag   bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wabliefteru [vraag]",
	Short: "Chat with the Wabliefteru podcast bot from your terminal",
	Long: `wabliefteru asks the Wabliefteru podcast question-answering webhook
about the content of the episodes and renders its markdown answers.

Without arguments it opens the interactive chat. With a question, a file
or piped input it asks once and prints the answer.

Examples:
  wabliefteru                              Start interactive chat
  wabliefteru "Wie was de gast in aflevering 3?"
  wabliefteru -f vraag.txt                 Read the question from a file
  echo "Wat is een cinemaat?" | wabliefteru
  wabliefteru "Hallo" -o antwoord.md       Save the answer to a file
  wabliefteru --webhook http://localhost:5678/webhook/test chat`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(deps.Stdout, "wabliefteru %s (built %s)\n", Version, BuildTime)
			return nil
		}

		question, ok, err := readQuestion(args)
		if err != nil {
			return err
		}
		if ok {
			return runAsk(question)
		}

		return runChat()
	},
}

// readQuestion takes the question from -f, the positional argument or
// piped stdin, in that order. ok is false when none of them is present.
func readQuestion(args []string) (string, bool, error) {
	if fileFlag != "" {
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if deps.StdinIsPipe() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "wabliefteru"))
		os.Exit(1)
	}
}

// addQuestionFlags registers the flags that control a one-shot question
func addQuestionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the answer to a file")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the question from a file")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the answer without markdown rendering")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the answer to the clipboard")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&webhookFlag, "webhook", "",
		"Webhook URL (overrides WABLIEFTERU_WEBHOOK_URL, VITE_WEBHOOK_URL and the config file)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Log file (default ~/.wabliefteru/wabliefteru.log)")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")
	addQuestionFlags(rootCmd)

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(configCmd)
}
