package out

import (
	"context"
	"encoding/json"

	"coursemenu/internal/modules/course/domain"
)

type Authenticator interface {
	Authenticate(ctx context.Context) (domain.Credential, error)
}

// ObjectFetcher retrieves raw API objects. FetchObjects may return objects in
// any order and must not call the network for an empty id list.
type ObjectFetcher interface {
	FetchObject(ctx context.Context, cred domain.Credential, class domain.EntityClass, id int64) (json.RawMessage, error)
	FetchObjects(ctx context.Context, cred domain.Credential, class domain.EntityClass, ids []int64) ([]json.RawMessage, error)
	ListCourses(ctx context.Context, cred domain.Credential, page int) ([]json.RawMessage, bool, error)
}

type ExportStore interface {
	Write(ctx context.Context, bundle domain.ExportBundle) (string, error)
}

type ExportIndexProjector interface {
	RecordExport(ctx context.Context, record domain.ExportRecord) error
	ListExports(ctx context.Context) ([]domain.ExportRecord, error)
	LessonsForRun(ctx context.Context, runID string) ([]domain.ExportedLesson, error)
}

type ProgressReporter interface {
	Report(ctx context.Context, event domain.ProgressEvent)
}
