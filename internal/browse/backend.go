package browse

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/filmcat/internal/adapters/render"
	service "github.com/okian/filmcat/internal/app"
)

// Backend executes commands against a catalog and shows the resulting view.
type Backend interface {
	Do(ctx context.Context, cmd Command) error
	Show(ctx context.Context) error
	Categories(ctx context.Context) ([]string, error)
	Close() error
}

// LocalBackend drives an in-process service.
type LocalBackend struct {
	svc     *service.Service
	surface *render.WriterSurface
}

// NewLocalBackend creates a backend rendering views of svc to out.
func NewLocalBackend(svc *service.Service, out io.Writer, r render.Renderer) *LocalBackend {
	return &LocalBackend{svc: svc, surface: render.NewWriterSurface(out, r)}
}

// Do applies cmd to the service. Read-only commands are no-ops.
func (b *LocalBackend) Do(ctx context.Context, cmd Command) error {
	switch cmd.Name {
	case CmdSearch:
		b.svc.Search(ctx, cmd.Arg)
	case CmdClear:
		b.svc.ClearSearch(ctx)
	case CmdCategory:
		b.svc.SelectCategory(ctx, cmd.Arg)
	case CmdSort:
		b.svc.SelectSort(ctx, cmd.Arg)
	case CmdReset:
		b.svc.Reset(ctx)
	case CmdReload:
		if _, err := b.svc.Reload(ctx); err != nil {
			return fmt.Errorf("reload: %w", err)
		}
	}
	return nil
}

// Show renders the current view.
func (b *LocalBackend) Show(ctx context.Context) error {
	return b.surface.Show(ctx, b.svc.View())
}

// Categories returns the category menu.
func (b *LocalBackend) Categories(_ context.Context) ([]string, error) {
	return b.svc.Categories(), nil
}

// Close stops the service.
func (b *LocalBackend) Close() error {
	b.svc.Stop()
	return nil
}
