package in

import (
	"context"

	"coursemenu/internal/modules/course/dto"
)

type Usecase interface {
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	Preview(ctx context.Context, input dto.PreviewInput) (dto.PreviewOutput, error)
	ListCourses(ctx context.Context, input dto.ListCoursesInput) (dto.CoursePageOutput, error)
	ListExports(ctx context.Context) ([]dto.ExportRecordOutput, error)
	ExportLessons(ctx context.Context, input dto.ExportLessonsInput) ([]dto.ExportedLessonOutput, error)
}
