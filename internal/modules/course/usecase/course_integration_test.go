package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	courseoutadapter "coursemenu/internal/modules/course/adapter/out"
	"coursemenu/internal/modules/course/dto"
	"coursemenu/internal/modules/course/service"
	"coursemenu/internal/modules/course/usecase"
	"coursemenu/internal/platform/clock"
	apperrors "coursemenu/internal/platform/errors"
	"coursemenu/internal/platform/id"
)

// stubAPI serves a two-section course plus the token endpoint.
func stubAPI(t *testing.T) *httptest.Server {
	t.Helper()
	objects := map[string]map[int64]any{
		"courses": {
			7: map[string]any{"id": 7, "title": "Intro to Go", "sections": []int64{70}},
		},
		"sections": {
			70: map[string]any{"id": 70, "title": "Start", "position": 3, "units": []int64{700, 701}},
		},
		"units": {
			700: map[string]any{"id": 700, "section": 70, "lesson": 7000, "position": 1},
			701: map[string]any{"id": 701, "section": 70, "lesson": 7001, "position": 2},
		},
		"lessons": {
			7000: map[string]any{"id": 7000, "title": "Hello/World", "steps": []int64{1, 2}},
			7001: map[string]any{"id": 7001, "title": "Loops", "steps": []int64{3}},
		},
		"steps": {
			1: map[string]any{"id": 1, "lesson": 7000, "position": 2, "block": map[string]any{"name": "code", "text": "<p>Print it</p>"}},
			2: map[string]any{"id": 2, "lesson": 7000, "position": 1, "block": map[string]any{"name": "text", "text": "<p>Hi <b>there</b></p>"}},
			3: map[string]any{"id": 3, "lesson": 7001, "position": 1, "block": map[string]any{"name": "pycharm", "text": ""}},
		},
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/oauth2/token/" {
			_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":3600}`))
			return
		}
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 2 || parts[0] != "api" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		key := parts[1]
		var ids []string
		if len(parts) == 3 {
			ids = []string{parts[2]}
		} else {
			ids = r.URL.Query()["ids[]"]
		}
		if key == "courses" && len(ids) == 0 {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"meta":    map[string]any{"page": 1, "has_next": false},
				"courses": []any{objects["courses"][7]},
			})
			return
		}
		found := []any{}
		for _, raw := range ids {
			n, _ := strconv.ParseInt(raw, 10, 64)
			if obj, ok := objects[key][n]; ok {
				found = append(found, obj)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{key: found})
	}))
}

func newInteractor(t *testing.T, apiURL, out string) *usecase.Interactor {
	t.Helper()
	projector := courseoutadapter.NewSQLiteExportProjector(filepath.Join(out, ".coursemenu", "index.db"))
	t.Cleanup(func() { _ = projector.Close() })
	fetcher := courseoutadapter.NewCachingFetcher(courseoutadapter.NewHTTPObjectFetcher(nil, courseoutadapter.HTTPFetcherConfig{BaseURL: apiURL}), time.Minute)
	svc := service.NewExportService(
		nil,
		clock.SystemClock{},
		id.UUID{},
		courseoutadapter.NewOAuthAuthenticator(nil, courseoutadapter.OAuthConfig{BaseURL: apiURL, ClientID: "id", ClientSecret: "secret"}),
		fetcher,
		courseoutadapter.NewVaultExportStore(out),
		projector,
		nil,
	)
	return usecase.NewInteractor(svc).(*usecase.Interactor)
}

func TestExportPreviewAndHistory(t *testing.T) {
	t.Parallel()
	srv := stubAPI(t)
	defer srv.Close()
	out := t.TempDir()
	uc := newInteractor(t, srv.URL, out)
	ctx := context.Background()

	exported, err := uc.Export(ctx, dto.ExportInput{CourseID: 7, Content: "full", Concurrency: 2})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if exported.Progress != "0/3" || exported.Sections != 1 || exported.Lessons != 2 || exported.Steps != 3 {
		t.Fatalf("unexpected output %+v", exported)
	}
	wantMenu := "Intro to Go\nПрогресс по курсу:  0/3\n\n1  Start\n\n1.1  Hello/World\n\n1.2  Loops\n"
	if exported.MenuText != wantMenu {
		t.Fatalf("unexpected menu:\n%q", exported.MenuText)
	}

	lesson, err := os.ReadFile(filepath.Join(exported.Dir, "01_Start", "1.1_HelloWorld.md"))
	if err != nil {
		t.Fatalf("read lesson: %v", err)
	}
	text := string(lesson)
	if !strings.Contains(text, "## Шаг TEXT 1\n<!-- step_id: 2 -->\n<p>Hi <b>there</b></p>") {
		t.Fatalf("text step missing or misordered:\n%s", text)
	}
	if !strings.Contains(text, "## Шаг CODE 2\n<!-- step_id: 1 -->\n```python\n# Write your code here\n```") {
		t.Fatalf("code step missing:\n%s", text)
	}
	loops, err := os.ReadFile(filepath.Join(exported.Dir, "01_Start", "1.2_Loops.md"))
	if err != nil {
		t.Fatalf("read lesson: %v", err)
	}
	if !strings.Contains(string(loops), "## Шаг PYCHARM 1") {
		t.Fatalf("unknown step types fall back to the uppercase name:\n%s", loops)
	}

	preview, err := uc.Preview(ctx, dto.PreviewInput{CourseID: 7})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.MenuText != exported.MenuText {
		t.Fatalf("preview menu differs from export menu")
	}

	page, err := uc.ListCourses(ctx, dto.ListCoursesInput{})
	if err != nil {
		t.Fatalf("list courses: %v", err)
	}
	if page.Page != 1 || page.HasNext || len(page.Courses) != 1 || page.Courses[0].Sections != 1 {
		t.Fatalf("unexpected course page %+v", page)
	}

	history, err := uc.ListExports(ctx)
	if err != nil {
		t.Fatalf("list exports: %v", err)
	}
	if len(history) != 1 || history[0].RunID != exported.RunID || history[0].Steps != 3 {
		t.Fatalf("unexpected history %+v", history)
	}
	lessons, err := uc.ExportLessons(ctx, dto.ExportLessonsInput{RunID: exported.RunID})
	if err != nil {
		t.Fatalf("export lessons: %v", err)
	}
	if len(lessons) != 2 || lessons[0].Menu != "1.1" || lessons[1].File != "01_Start/1.2_Loops.md" {
		t.Fatalf("unexpected indexed lessons %+v", lessons)
	}
}

func TestExportSkipIndex(t *testing.T) {
	t.Parallel()
	srv := stubAPI(t)
	defer srv.Close()
	uc := newInteractor(t, srv.URL, t.TempDir())

	if _, err := uc.Export(context.Background(), dto.ExportInput{CourseID: 7, SkipIndex: true}); err != nil {
		t.Fatalf("export: %v", err)
	}
	history, err := uc.ListExports(context.Background())
	if err != nil {
		t.Fatalf("list exports: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected no recorded runs, got %d", len(history))
	}
}

func TestFailedExportLeavesOutputEmpty(t *testing.T) {
	t.Parallel()
	srv := stubAPI(t)
	defer srv.Close()
	out := t.TempDir()
	uc := newInteractor(t, srv.URL, out)

	if _, err := uc.Export(context.Background(), dto.ExportInput{CourseID: 404}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read out: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("failed export must not create anything, found %v", entries[0].Name())
	}
}
