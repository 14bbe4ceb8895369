package domain

import "time"

type Stage string

const (
	StageAuth     Stage = "auth"
	StageCourse   Stage = "course"
	StageSections Stage = "sections"
	StageUnits    Stage = "units"
	StageLessons  Stage = "lessons"
	StageSteps    Stage = "steps"
	StageAssemble Stage = "assemble"
	StageWrite    Stage = "write"
)

type ProgressEvent struct {
	Stage   Stage
	Count   int
	Message string
}

// ExportRecord is one row of the export index.
type ExportRecord struct {
	RunID      string
	CourseID   int64
	Title      string
	Progress   string
	Dir        string
	Content    ContentMode
	Counts     Counts
	Dangling   int
	Lessons    []ExportedLesson
	ExportedAt time.Time
}

type ExportedLesson struct {
	Menu     string
	LessonID int64
	Title    string
	File     string
	Steps    int
}

func NewExportRecord(runID, dir string, c Course, mode ContentMode, dangling int, at time.Time) ExportRecord {
	rec := ExportRecord{
		RunID:      runID,
		CourseID:   c.ID,
		Title:      c.Title,
		Progress:   c.Progress,
		Dir:        dir,
		Content:    mode,
		Counts:     c.Counts(),
		Dangling:   dangling,
		ExportedAt: at,
	}
	for _, s := range c.Sections {
		for _, l := range s.Lessons {
			rec.Lessons = append(rec.Lessons, ExportedLesson{
				Menu:     l.MenuNumber(),
				LessonID: l.ID,
				Title:    l.Title,
				File:     LessonPath(s, l),
				Steps:    len(l.Steps),
			})
		}
	}
	return rec
}
