package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const exitCommand = "exit"

func newChatCommand(opts *rootOptions) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive question loop",
		Long: `Ask questions one after another. After each question you are asked for a
reply language; press enter for English. Type "exit" to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				color.NoColor = true //nolint:reassign // library global
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := opts.cliLogger()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}

			return runChat(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

// runChat reads question and language pairs from in until "exit" or EOF.
func runChat(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	prompt := color.New(color.FgCyan, color.Bold)
	reply := color.New(color.FgGreen)
	failure := color.New(color.FgRed)

	scanner := bufio.NewScanner(in)
	readLine := func(label string) (string, bool) {
		prompt.Fprint(out, label)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	fmt.Fprintf(out, "Ask about groundwater in any Indian state or district. Type %q to quit.\n", exitCommand)

	for {
		question, ok := readLine("You: ")
		if !ok || strings.EqualFold(question, exitCommand) {
			break
		}
		if question == "" {
			continue
		}

		language, ok := readLine("Language (en, hi, kn, te, mr, ta, gu) [en]: ")
		if !ok {
			break
		}

		answer, err := a.assistant.ProcessQuery(ctx, question, coerceLanguage(a, language))
		if err != nil {
			failure.Fprintf(out, "Error: %v\n", err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		reply.Fprintf(out, "Assistant: %s\n", answer.Text)
	}

	fmt.Fprintln(out, "Goodbye!")
	return scanner.Err()
}
