package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"coursemenu/internal/modules/course/domain"
	courseout "coursemenu/internal/modules/course/port/out"
	"coursemenu/internal/platform/clock"
	apperrors "coursemenu/internal/platform/errors"
	"coursemenu/internal/platform/id"
	"coursemenu/internal/platform/logger"
)

type ExportRequest struct {
	CourseID    int64
	Mode        domain.ContentMode
	Concurrency int
	SkipIndex   bool
}

type ExportResult struct {
	RunID    string
	Course   domain.Course
	Dangling []domain.DanglingRef
	Dir      string
	TOCPath  string
}

type ExportService struct {
	log      *logger.Logger
	clock    clock.Clock
	ids      id.Generator
	auth     courseout.Authenticator
	fetcher  courseout.ObjectFetcher
	store    courseout.ExportStore
	index    courseout.ExportIndexProjector
	progress courseout.ProgressReporter
}

func NewExportService(
	log *logger.Logger,
	clock clock.Clock,
	ids id.Generator,
	auth courseout.Authenticator,
	fetcher courseout.ObjectFetcher,
	store courseout.ExportStore,
	index courseout.ExportIndexProjector,
	progress courseout.ProgressReporter,
) *ExportService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ExportService{
		log:      log.With("component", "ExportService"),
		clock:    clock,
		ids:      ids,
		auth:     auth,
		fetcher:  fetcher,
		store:    store,
		index:    index,
		progress: progress,
	}
}

// Export fetches, assembles and writes one course. Nothing is written unless
// every fetch succeeded.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	runID := s.ids.New()
	log := s.log.With("run_id", runID, "course_id", req.CourseID)

	assembly, err := s.build(ctx, log, req)
	if err != nil {
		return ExportResult{}, err
	}
	course := assembly.Course

	bundle, err := domain.BuildExport(course)
	if err != nil {
		return ExportResult{}, fmt.Errorf("render export: %w", err)
	}
	dir, err := s.store.Write(ctx, bundle)
	if err != nil {
		return ExportResult{}, fmt.Errorf("write export: %w", err)
	}
	s.report(ctx, domain.StageWrite, len(bundle.Files), fmt.Sprintf("wrote %d files to %s", len(bundle.Files), dir))
	log.Info("export written", "dir", dir, "files", len(bundle.Files))

	if !req.SkipIndex && s.index != nil {
		record := domain.NewExportRecord(runID, dir, course, req.Mode, len(assembly.Dangling), s.clock.Now())
		if err := s.index.RecordExport(ctx, record); err != nil {
			log.Warn("record export index failed", "error", err)
		}
	}

	return ExportResult{
		RunID:    runID,
		Course:   course,
		Dangling: assembly.Dangling,
		Dir:      dir,
		TOCPath:  bundle.TOCPath(),
	}, nil
}

// Preview runs the fetch and assembly stages only.
func (s *ExportService) Preview(ctx context.Context, req ExportRequest) (domain.Assembly, error) {
	log := s.log.With("run_id", s.ids.New(), "course_id", req.CourseID, "preview", true)
	return s.build(ctx, log, req)
}

func (s *ExportService) ListCourses(ctx context.Context, page int) ([]domain.CourseRecord, bool, error) {
	if page < 1 {
		page = 1
	}
	cred, err := s.authenticate(ctx)
	if err != nil {
		return nil, false, err
	}
	raws, hasNext, err := s.fetcher.ListCourses(ctx, cred, page)
	if err != nil {
		return nil, false, fmt.Errorf("list courses: %w", err)
	}
	courses, err := decodeAll[domain.CourseRecord](domain.ClassCourse, nil, raws)
	if err != nil {
		return nil, false, err
	}
	return courses, hasNext, nil
}

func (s *ExportService) ListExports(ctx context.Context) ([]domain.ExportRecord, error) {
	if s.index == nil {
		return nil, nil
	}
	return s.index.ListExports(ctx)
}

// ExportLessons returns the lesson rows recorded for one run in menu order.
func (s *ExportService) ExportLessons(ctx context.Context, runID string) ([]domain.ExportedLesson, error) {
	if strings.TrimSpace(runID) == "" {
		return nil, fmt.Errorf("%w: run id is required", apperrors.ErrInvalidInput)
	}
	if s.index == nil {
		return nil, nil
	}
	lessons, err := s.index.LessonsForRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list lessons of run %s: %w", runID, err)
	}
	if len(lessons) == 0 {
		return nil, fmt.Errorf("%w: no export run %s", apperrors.ErrNotFound, runID)
	}
	return lessons, nil
}

func (s *ExportService) authenticate(ctx context.Context) (domain.Credential, error) {
	cred, err := s.auth.Authenticate(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrAuthentication) {
			err = fmt.Errorf("%w: %w", apperrors.ErrAuthentication, err)
		}
		return domain.Credential{}, fmt.Errorf("authenticate: %w", err)
	}
	if !cred.Valid() {
		return domain.Credential{}, fmt.Errorf("authenticate: %w: empty access token", apperrors.ErrAuthentication)
	}
	return cred, nil
}

func (s *ExportService) build(ctx context.Context, log *logger.Logger, req ExportRequest) (domain.Assembly, error) {
	if req.CourseID <= 0 {
		return domain.Assembly{}, fmt.Errorf("%w: course id must be positive, got %d", apperrors.ErrInvalidInput, req.CourseID)
	}
	if req.Mode == "" {
		req.Mode = domain.ContentText
	}
	if err := req.Mode.Validate(); err != nil {
		return domain.Assembly{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	if req.Concurrency < 1 {
		req.Concurrency = 1
	}

	cred, err := s.authenticate(ctx)
	if err != nil {
		return domain.Assembly{}, err
	}
	s.report(ctx, domain.StageAuth, 0, "authorized")

	raw, err := s.fetcher.FetchObject(ctx, cred, domain.ClassCourse, req.CourseID)
	if err != nil {
		return domain.Assembly{}, fmt.Errorf("fetch course: %w", err)
	}
	var course domain.CourseRecord
	if err := json.Unmarshal(raw, &course); err != nil {
		return domain.Assembly{}, &apperrors.FetchError{Class: string(domain.ClassCourse), IDs: []int64{req.CourseID}, Err: fmt.Errorf("decode: %w", err)}
	}
	s.report(ctx, domain.StageCourse, 1, fmt.Sprintf("loaded course %q", course.Title))
	log.Info("course loaded", "title", course.Title, "sections", len(course.Sections))

	sections, err := fetchMany[domain.SectionRecord](ctx, s.fetcher, cred, domain.ClassSection, domain.UniqueIDs(course.Sections))
	if err != nil {
		return domain.Assembly{}, fmt.Errorf("fetch sections: %w", err)
	}
	s.report(ctx, domain.StageSections, len(sections), fmt.Sprintf("loaded %d sections", len(sections)))

	var unitIDs []int64
	for _, section := range sections {
		unitIDs = append(unitIDs, section.Units...)
	}
	units, err := fetchMany[domain.UnitRecord](ctx, s.fetcher, cred, domain.ClassUnit, domain.UniqueIDs(unitIDs))
	if err != nil {
		return domain.Assembly{}, fmt.Errorf("fetch units: %w", err)
	}
	s.report(ctx, domain.StageUnits, len(units), fmt.Sprintf("loaded %d units", len(units)))

	lessonIDs := make([]int64, 0, len(units))
	for _, unit := range units {
		lessonIDs = append(lessonIDs, unit.Lesson)
	}
	lessons, err := fetchMany[domain.LessonRecord](ctx, s.fetcher, cred, domain.ClassLesson, domain.UniqueIDs(lessonIDs))
	if err != nil {
		return domain.Assembly{}, fmt.Errorf("fetch lessons: %w", err)
	}
	s.report(ctx, domain.StageLessons, len(lessons), fmt.Sprintf("loaded %d lessons", len(lessons)))

	steps, sources, err := s.fetchSteps(ctx, cred, lessons, req)
	if err != nil {
		return domain.Assembly{}, err
	}
	stepCount := 0
	for _, list := range steps {
		stepCount += len(list)
	}
	s.report(ctx, domain.StageSteps, stepCount, fmt.Sprintf("loaded %d steps", stepCount))

	assembly := domain.Assemble(domain.AssemblyInput{
		Course:   course,
		Sections: sections,
		Units:    units,
		Lessons:  lessons,
		Steps:    steps,
		Sources:  sources,
	}, domain.ExtractorFor(req.Mode))
	for _, ref := range assembly.Dangling {
		log.Warn("dangling unit skipped", "section_id", ref.SectionID, "unit_id", ref.UnitID, "lesson_id", ref.LessonID)
	}
	counts := assembly.Course.Counts()
	s.report(ctx, domain.StageAssemble, counts.Lessons, fmt.Sprintf("assembled %d sections, %d lessons, %d steps", counts.Sections, counts.Lessons, counts.Steps))
	return assembly, nil
}

// fetchSteps loads steps (and step sources in full mode) per lesson with at
// most req.Concurrency lessons in flight. Results are keyed by lesson id.
func (s *ExportService) fetchSteps(ctx context.Context, cred domain.Credential, lessons []domain.LessonRecord, req ExportRequest) (map[int64][]domain.StepRecord, map[int64]domain.StepSourceRecord, error) {
	steps := make(map[int64][]domain.StepRecord, len(lessons))
	sources := make(map[int64]domain.StepSourceRecord)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Concurrency)
	for _, lesson := range lessons {
		if len(lesson.Steps) == 0 {
			continue
		}
		lesson := lesson
		g.Go(func() error {
			list, err := fetchMany[domain.StepRecord](gctx, s.fetcher, cred, domain.ClassStep, lesson.Steps)
			if err != nil {
				return fmt.Errorf("fetch steps of lesson %d: %w", lesson.ID, err)
			}
			var srcs []domain.StepSourceRecord
			if req.Mode == domain.ContentFull {
				srcs, err = fetchMany[domain.StepSourceRecord](gctx, s.fetcher, cred, domain.ClassStepSource, lesson.Steps)
				if err != nil {
					return fmt.Errorf("fetch step sources of lesson %d: %w", lesson.ID, err)
				}
			}
			mu.Lock()
			defer mu.Unlock()
			steps[lesson.ID] = list
			for _, src := range srcs {
				sources[src.ID] = src
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return steps, sources, nil
}

func (s *ExportService) report(ctx context.Context, stage domain.Stage, count int, message string) {
	if s.progress == nil {
		return
	}
	s.progress.Report(ctx, domain.ProgressEvent{Stage: stage, Count: count, Message: message})
}

func fetchMany[T any](ctx context.Context, fetcher courseout.ObjectFetcher, cred domain.Credential, class domain.EntityClass, ids []int64) ([]T, error) {
	raws, err := fetcher.FetchObjects(ctx, cred, class, ids)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](class, ids, raws)
}

func decodeAll[T any](class domain.EntityClass, ids []int64, raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, &apperrors.FetchError{Class: string(class), IDs: ids, Err: fmt.Errorf("decode: %w", err)}
		}
		out = append(out, item)
	}
	return out, nil
}
