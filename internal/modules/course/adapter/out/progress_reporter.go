package out

import (
	"context"
	"fmt"
	"io"

	"coursemenu/internal/modules/course/domain"
	courseout "coursemenu/internal/modules/course/port/out"
)

// WriterProgressReporter prints one indented line per stage.
type WriterProgressReporter struct {
	w io.Writer
}

func NewWriterProgressReporter(w io.Writer) courseout.ProgressReporter {
	return WriterProgressReporter{w: w}
}

func (r WriterProgressReporter) Report(_ context.Context, event domain.ProgressEvent) {
	if r.w == nil {
		return
	}
	_, _ = fmt.Fprintf(r.w, "  [%s] %s\n", event.Stage, event.Message)
}
