package browse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/filmcat/pkg/logger"
)

// DefaultPrompt is printed before every REPL line.
const DefaultPrompt = "filmcat> "

// REPL reads commands line by line and shows the view after each one that
// changes it.
type REPL struct {
	backend Backend
	in      io.Reader
	out     io.Writer
	prompt  string
	log     logger.Logger
}

// NewREPL creates a REPL reading from in and writing prompts and messages
// to out.
func NewREPL(backend Backend, in io.Reader, out io.Writer, log logger.Logger) *REPL {
	if log == nil {
		log = logger.Nop()
	}
	return &REPL{backend: backend, in: in, out: out, prompt: DefaultPrompt, log: log}
}

// Run shows the initial view then processes commands until quit, end of
// input or ctx cancellation. Command errors are reported and do not stop
// the loop.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.backend.Show(ctx); err != nil {
		r.report(ctx, err)
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		fmt.Fprint(r.out, r.prompt)

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			line = l
		}

		quit, err := r.Exec(ctx, line)
		if err != nil {
			r.report(ctx, err)
		}
		if quit {
			return nil
		}
	}
}

// Exec runs a single line and reports whether the REPL should stop.
func (r *REPL) Exec(ctx context.Context, line string) (bool, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return false, err
	}

	switch cmd.Name {
	case "":
		return false, nil
	case CmdQuit:
		return true, nil
	case CmdHelp:
		fmt.Fprint(r.out, helpText)
		return false, nil
	case CmdCategories:
		cats, err := r.backend.Categories(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, strings.Join(cats, "\n"))
		return false, nil
	case CmdShow:
		return false, r.backend.Show(ctx)
	}

	r.log.Debug(ctx, "executing command", logger.String("command", cmd.Name), logger.String("arg", cmd.Arg))
	doErr := r.backend.Do(ctx, cmd)
	// A failed reload still leaves a view worth showing.
	if err := r.backend.Show(ctx); err != nil {
		return false, errors.Join(doErr, err)
	}
	return false, doErr
}

func (r *REPL) report(ctx context.Context, err error) {
	r.log.Debug(ctx, "command failed", logger.Error(err))
	fmt.Fprintf(r.out, "error: %v\n", err)
}
