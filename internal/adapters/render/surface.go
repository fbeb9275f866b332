package render

import (
	"context"
	"io"
	"sync"

	"github.com/okian/filmcat/internal/domain/types"
)

// WriterSurface re-renders every view it is shown onto a writer.
type WriterSurface struct {
	mu       sync.Mutex
	w        io.Writer
	renderer Renderer
}

// NewWriterSurface creates a surface writing to w with r.
func NewWriterSurface(w io.Writer, r Renderer) *WriterSurface {
	return &WriterSurface{w: w, renderer: r}
}

// Show renders v. Calls are serialized so views never interleave.
func (s *WriterSurface) Show(_ context.Context, v types.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Render(s.w, v)
}
