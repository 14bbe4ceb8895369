package domain

import (
	"fmt"
	"strings"

	"coursemenu/internal/platform/markdown"
)

const (
	ProgressLabel   = "Прогресс по курсу:"
	EmptyTextMarker = "*Нет текстового содержания*"
	CodePlaceholder = "# Write your code here"
	DefaultCodeLang = "python"
)

// RenderMenu draws the course the way the platform's left menu shows it.
func RenderMenu(c Course) string {
	lines := []string{c.Title, ProgressLabel + "  " + c.Progress, ""}
	for _, section := range c.Sections {
		lines = append(lines, fmt.Sprintf("%d  %s", section.Position, section.Title), "")
		for _, lesson := range section.Lessons {
			lines = append(lines, lesson.MenuNumber()+"  "+lesson.Title, "")
		}
	}
	return strings.Join(lines, "\n")
}

func RenderLesson(l Lesson) string {
	var doc markdown.Doc
	doc.Heading(1, l.MenuNumber()+" "+l.Title).
		Comment("lesson_id", l.ID).
		Blank()
	for _, step := range l.Steps {
		renderStep(&doc, step)
		doc.Rule().Blank()
	}
	return doc.String()
}

// RenderStepBody renders everything below a step's header and id comment.
func RenderStepBody(s Step) string {
	var doc markdown.Doc
	writeStepBody(&doc, s)
	return doc.String()
}

func renderStep(doc *markdown.Doc, s Step) {
	doc.Heading(2, s.Title).Comment("step_id", s.ID)
	writeStepBody(doc, s)
}

// writeStepBody dispatches on the step type in every content mode; the mode
// only changes what the extractor put into s.Content.
func writeStepBody(doc *markdown.Doc, s Step) {
	switch s.Type {
	case StepText:
		if strings.TrimSpace(s.Content.Text) == "" {
			doc.Line(EmptyTextMarker)
			return
		}
		doc.Line(s.Content.Text)
	case StepVideo:
		doc.Heading(3, "Video")
		for _, u := range s.Content.Videos {
			doc.Link(u.Quality+"p", u.URL)
		}
	case StepChoice:
		doc.Line(s.Content.Text)
		if len(s.Content.Options) > 0 {
			doc.Line("\nOptions:")
			doc.Numbered(s.Content.Options)
		}
	case StepCode:
		doc.Fence(DefaultCodeLang, CodePlaceholder)
	}
}
