package in

import (
	"context"

	"coursemenu/internal/modules/course/dto"
	coursein "coursemenu/internal/modules/course/port/in"
)

type CLIHandler struct {
	usecase coursein.Usecase
}

func NewCLIHandler(usecase coursein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context, courseID int64, content string, concurrency int, skipIndex bool) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{
		CourseID:    courseID,
		Content:     content,
		Concurrency: concurrency,
		SkipIndex:   skipIndex,
	})
}

func (h CLIHandler) Preview(ctx context.Context, courseID int64, content string) (dto.PreviewOutput, error) {
	return h.usecase.Preview(ctx, dto.PreviewInput{CourseID: courseID, Content: content})
}

func (h CLIHandler) ListCourses(ctx context.Context, page int) (dto.CoursePageOutput, error) {
	return h.usecase.ListCourses(ctx, dto.ListCoursesInput{Page: page})
}

func (h CLIHandler) ListExports(ctx context.Context) ([]dto.ExportRecordOutput, error) {
	return h.usecase.ListExports(ctx)
}

func (h CLIHandler) ExportLessons(ctx context.Context, runID string) ([]dto.ExportedLessonOutput, error) {
	return h.usecase.ExportLessons(ctx, dto.ExportLessonsInput{RunID: runID})
}
