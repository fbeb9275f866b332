// Package enrich replaces placeholder entries of a catalog file with films
// fetched from TMDb. It is an offline maintenance tool; the catalog browser
// only ever reads the resulting file.
package enrich

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/filmcat/pkg/logger"
)

// NewRootCommand creates the filmcat-enrich command.
func NewRootCommand() *cobra.Command {
	var (
		dataFile string
		language string
		maxPages int
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "filmcat-enrich",
		Short: "Replace placeholder films with TMDb data",
		Long: `filmcat-enrich finds placeholder entries in a catalog file (category
"Placeholder", a title starting with "Filme Placeholder", or no detail link)
and replaces them with popular films from TMDb.

TMDB_API_KEY must be set in the environment or in a .env file. The original
file is saved next to it with the .enriched.bak suffix before it is rewritten.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := logger.InitWithOptions(logger.Options{Output: cmd.ErrOrStderr()}); err != nil {
				return err
			}
			if err := logger.SetLevelString(logLevel); err != nil {
				return err
			}

			cfg, err := LoadConfig(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("language") {
				cfg.Language = language
			}
			if cmd.Flags().Changed("pages") {
				cfg.MaxPages = maxPages
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logger.Named("enrich")
			rep, err := New(NewClient(cfg, log), cfg, log).Run(ctx, dataFile)
			if err != nil {
				return err
			}
			return printReport(cmd, rep)
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data-file", "f", "data.json", "catalog file to enrich in place")
	cmd.Flags().StringVar(&language, "language", DefaultLanguage, "TMDb response language")
	cmd.Flags().IntVar(&maxPages, "pages", DefaultMaxPages, "maximum /movie/popular pages to fetch")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

// Execute runs the command with args.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func printReport(cmd *cobra.Command, rep Report) error {
	out := cmd.OutOrStdout()
	if rep.Placeholders == 0 {
		_, err := fmt.Fprintln(out, "No placeholders to replace.")
		return err
	}
	_, err := fmt.Fprintf(out, "Replaced %d of %d placeholders using %d candidates.", rep.Replaced, rep.Placeholders, rep.Candidates)
	if err != nil {
		return err
	}
	if rep.BackupPath != "" {
		_, err = fmt.Fprintf(out, " Backup saved to %s.", rep.BackupPath)
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(out)
	return err
}
