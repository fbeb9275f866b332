// Package browse implements the filmcat-browse terminal client. It drives
// either an in-process catalog service or a running server over HTTP.
package browse

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/filmcat/internal/adapters/render"
	service "github.com/okian/filmcat/internal/app"
	"github.com/okian/filmcat/internal/config"
	"github.com/okian/filmcat/pkg/logger"
)

// DefaultRemoteTimeout bounds a single request in remote mode.
const DefaultRemoteTimeout = 10 * time.Second

// Options holds the persistent flags.
type Options struct {
	URL      string
	Format   string
	DataFile string
	Timeout  time.Duration
	LogLevel string
}

// NewRootCommand creates the filmcat-browse command tree.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "filmcat-browse",
		Short: "Browse the film catalog from a terminal",
		Long: `filmcat-browse searches, filters and sorts the film catalog.

Without --url the catalog is loaded in-process using the FILMCAT_ config.
With --url the commands are sent to a running filmcat server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts.LogLevel)
		},
	}

	root.PersistentFlags().StringVar(&opts.URL, "url", "", "base URL of a filmcat server (default: load the catalog in-process)")
	root.PersistentFlags().StringVarP(&opts.Format, "output", "o", "", "output format: table, json, yaml, html (default: table on a terminal, json otherwise)")
	root.PersistentFlags().StringVar(&opts.DataFile, "data-file", "", "catalog file to load in-process, overriding the config")
	root.PersistentFlags().DurationVar(&opts.Timeout, "timeout", DefaultRemoteTimeout, "request timeout in remote mode")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newQueryCommand(opts))
	root.AddCommand(newCategoriesCommand(opts))
	root.AddCommand(newREPLCommand(opts))

	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newQueryCommand(opts *Options) *cobra.Command {
	var search, category, sortKey string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the catalog view for one selection",
		Example: `  filmcat-browse query --search senhor
  filmcat-browse query --category Drama --sort rating-desc -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			b, err := openBackend(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer b.Close()

			steps := []Command{
				{Name: CmdCategory, Arg: category},
				{Name: CmdSort, Arg: sortKey},
				{Name: CmdSearch, Arg: search},
			}
			for _, step := range steps {
				if step.Arg == "" {
					continue
				}
				if err := b.Do(ctx, step); err != nil {
					return err
				}
			}
			return b.Show(ctx)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "search term matched against titles (and descriptions when search_descriptions is set)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category to filter by")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort key: default, rating-desc, rating-asc, year-desc, year-asc, alphabetical")

	return cmd
}

func newCategoriesCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			b, err := openBackend(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer b.Close()

			cats, err := b.Categories(ctx)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), strings.Join(cats, "\n")+"\n")
			return err
		},
	}
}

func newREPLCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Browse interactively",
		Long:  "Browse interactively. Type help for the list of commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			b, err := openBackend(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer b.Close()

			return NewREPL(b, cmd.InOrStdin(), cmd.OutOrStdout(), logger.Named("repl")).Run(ctx)
		},
	}
}

// openBackend picks the remote backend when --url is set and otherwise loads
// the catalog in-process, waiting for the initial load. A failed load still
// yields a backend whose view reports the catalog as unavailable.
func openBackend(ctx context.Context, cmd *cobra.Command, opts *Options) (Backend, error) {
	out := cmd.OutOrStdout()
	f, _ := out.(*os.File)
	format, err := render.ParseFormat(string(render.DetectFormat(opts.Format, f)))
	if err != nil {
		return nil, err
	}

	if opts.URL != "" {
		return NewRemoteBackend(opts.URL, format, out, opts.Timeout), nil
	}

	renderer, err := render.NewRenderer(format)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if opts.DataFile != "" {
		cfg.DataURL = ""
		cfg.DataFile = opts.DataFile
	}

	log := logger.Get()
	svc, err := service.FromConfig(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	if err := svc.Wait(ctx); err != nil {
		log.Warn(ctx, "catalog load failed", logger.Error(err))
	}
	return NewLocalBackend(svc, out, renderer), nil
}

// setupLogging sends logs to w so rendered output stays clean.
func setupLogging(w io.Writer, level string) error {
	if err := logger.InitWithOptions(logger.Options{Output: w}); err != nil {
		return err
	}
	return logger.SetLevelString(level)
}
