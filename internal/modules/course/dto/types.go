package dto

import "time"

type ExportInput struct {
	CourseID    int64
	Content     string
	Concurrency int
	SkipIndex   bool
}

type ExportOutput struct {
	RunID    string
	CourseID int64
	Title    string
	Progress string
	Dir      string
	TOCPath  string
	MenuText string
	Sections int
	Lessons  int
	Steps    int
	Dangling []string
}

type PreviewInput struct {
	CourseID int64
	Content  string
}

type PreviewOutput struct {
	CourseID int64
	Title    string
	MenuText string
	Sections int
	Lessons  int
	Steps    int
}

type ListCoursesInput struct {
	Page int
}

type CourseSummaryOutput struct {
	ID       int64
	Title    string
	Sections int
}

type CoursePageOutput struct {
	Page    int
	HasNext bool
	Courses []CourseSummaryOutput
}

type ExportLessonsInput struct {
	RunID string
}

type ExportedLessonOutput struct {
	Menu     string
	LessonID int64
	Title    string
	File     string
	Steps    int
}

type ExportRecordOutput struct {
	RunID      string
	CourseID   int64
	Title      string
	Progress   string
	Dir        string
	Sections   int
	Lessons    int
	Steps      int
	ExportedAt time.Time
}
