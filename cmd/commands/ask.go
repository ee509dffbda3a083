package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCommand(opts *rootOptions) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and exit",
		Example: `  ekaya-groundwater ask "What is the rainfall in Kerala?"
  ekaya-groundwater ask --language hi "Is it safe to extract water in Punjab?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			answer, err := a.assistant.ProcessQuery(cmd.Context(), strings.Join(args, " "), coerceLanguage(a, language))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "en", "reply language (en, hi, kn, te, mr, ta, gu)")

	return cmd
}

// coerceLanguage returns lang when it is offered, English otherwise.
func coerceLanguage(a *app, lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || !a.supports(lang) {
		return "en"
	}
	return lang
}
