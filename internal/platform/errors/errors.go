package apperrors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrAuthentication = errors.New("authentication failed")
	ErrFetch          = errors.New("fetch failed")
	ErrFilesystem     = errors.New("filesystem error")
)

// FetchError reports a failed request for one batch of objects.
type FetchError struct {
	Class  string
	IDs    []int64
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString("fetch ")
	b.WriteString(e.Class)
	if len(e.IDs) > 0 {
		b.WriteString(" [")
		for i, id := range e.IDs {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(strconv.FormatInt(id, 10))
		}
		b.WriteString("]")
	}
	if e.Status != 0 {
		b.WriteString(fmt.Sprintf(" http %d", e.Status))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// FilesystemError reports a failed write under the output root.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

func (e *FilesystemError) Is(target error) bool { return target == ErrFilesystem }
