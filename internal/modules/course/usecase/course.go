package usecase

import (
	"context"

	"coursemenu/internal/modules/course/domain"
	"coursemenu/internal/modules/course/dto"
	coursein "coursemenu/internal/modules/course/port/in"
	"coursemenu/internal/modules/course/service"
)

type Interactor struct {
	svc *service.ExportService
}

func NewInteractor(svc *service.ExportService) coursein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	result, err := i.svc.Export(ctx, service.ExportRequest{
		CourseID:    input.CourseID,
		Mode:        domain.ContentMode(input.Content),
		Concurrency: input.Concurrency,
		SkipIndex:   input.SkipIndex,
	})
	if err != nil {
		return dto.ExportOutput{}, err
	}
	counts := result.Course.Counts()
	dangling := make([]string, 0, len(result.Dangling))
	for _, ref := range result.Dangling {
		dangling = append(dangling, ref.String())
	}
	return dto.ExportOutput{
		RunID:    result.RunID,
		CourseID: result.Course.ID,
		Title:    result.Course.Title,
		Progress: result.Course.Progress,
		Dir:      result.Dir,
		TOCPath:  result.TOCPath,
		MenuText: domain.RenderMenu(result.Course),
		Sections: counts.Sections,
		Lessons:  counts.Lessons,
		Steps:    counts.Steps,
		Dangling: dangling,
	}, nil
}

func (i *Interactor) Preview(ctx context.Context, input dto.PreviewInput) (dto.PreviewOutput, error) {
	assembly, err := i.svc.Preview(ctx, service.ExportRequest{CourseID: input.CourseID, Mode: domain.ContentMode(input.Content)})
	if err != nil {
		return dto.PreviewOutput{}, err
	}
	counts := assembly.Course.Counts()
	return dto.PreviewOutput{
		CourseID: assembly.Course.ID,
		Title:    assembly.Course.Title,
		MenuText: domain.RenderMenu(assembly.Course),
		Sections: counts.Sections,
		Lessons:  counts.Lessons,
		Steps:    counts.Steps,
	}, nil
}

func (i *Interactor) ListCourses(ctx context.Context, input dto.ListCoursesInput) (dto.CoursePageOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	courses, hasNext, err := i.svc.ListCourses(ctx, page)
	if err != nil {
		return dto.CoursePageOutput{}, err
	}
	out := dto.CoursePageOutput{Page: page, HasNext: hasNext, Courses: make([]dto.CourseSummaryOutput, 0, len(courses))}
	for _, c := range courses {
		out.Courses = append(out.Courses, dto.CourseSummaryOutput{ID: c.ID, Title: c.Title, Sections: len(c.Sections)})
	}
	return out, nil
}

func (i *Interactor) ExportLessons(ctx context.Context, input dto.ExportLessonsInput) ([]dto.ExportedLessonOutput, error) {
	lessons, err := i.svc.ExportLessons(ctx, input.RunID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExportedLessonOutput, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, dto.ExportedLessonOutput{Menu: l.Menu, LessonID: l.LessonID, Title: l.Title, File: l.File, Steps: l.Steps})
	}
	return out, nil
}

func (i *Interactor) ListExports(ctx context.Context) ([]dto.ExportRecordOutput, error) {
	records, err := i.svc.ListExports(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExportRecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, dto.ExportRecordOutput{
			RunID:      r.RunID,
			CourseID:   r.CourseID,
			Title:      r.Title,
			Progress:   r.Progress,
			Dir:        r.Dir,
			Sections:   r.Counts.Sections,
			Lessons:    r.Counts.Lessons,
			Steps:      r.Counts.Steps,
			ExportedAt: r.ExportedAt,
		})
	}
	return out, nil
}
