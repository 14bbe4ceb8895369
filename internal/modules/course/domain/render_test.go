package domain_test

import (
	"strings"
	"testing"

	"coursemenu/internal/modules/course/domain"
)

func TestRenderMenu(t *testing.T) {
	t.Parallel()
	course := domain.Assemble(sampleInput(), nil).Course
	want := strings.Join([]string{
		"Go",
		"Прогресс по курсу:  0/4",
		"",
		"1  First",
		"",
		"1.1  Intro",
		"",
		"1.2  Setup",
		"",
		"2  Second",
		"",
		"2.1  Deep",
		"",
	}, "\n")
	if got := domain.RenderMenu(course); got != want {
		t.Fatalf("unexpected menu:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderChoiceBody(t *testing.T) {
	t.Parallel()
	s := domain.Step{
		Position: 1,
		Type:     domain.StepChoice,
		Title:    "Шаг QUIZ 1",
		Content:  domain.StepContent{Mode: domain.ContentFull, Text: "Pick one", Options: []string{"A", "B"}},
	}
	if got := domain.RenderStepBody(s); got != "Pick one\n\nOptions:\n1. A\n2. B" {
		t.Fatalf("unexpected choice body %q", got)
	}
}

func TestRenderFullBodies(t *testing.T) {
	t.Parallel()
	video := domain.Step{Type: domain.StepVideo, Content: domain.StepContent{Mode: domain.ContentFull, Videos: []domain.VideoURL{
		{Quality: "360", URL: "https://v/360.mp4"},
		{Quality: "720", URL: "https://v/720.mp4"},
	}}}
	if got := domain.RenderStepBody(video); got != "### Video\n[360p](https://v/360.mp4)\n[720p](https://v/720.mp4)" {
		t.Fatalf("unexpected video body %q", got)
	}
	code := domain.Step{Type: domain.StepCode, Content: domain.StepContent{Mode: domain.ContentFull}}
	if got := domain.RenderStepBody(code); got != "```python\n# Write your code here\n```" {
		t.Fatalf("unexpected code body %q", got)
	}
	matching := domain.Step{Type: domain.StepMatching, Content: domain.StepContent{Mode: domain.ContentFull, Text: "ignored"}}
	if got := domain.RenderStepBody(matching); got != "" {
		t.Fatalf("matching steps render header only, got %q", got)
	}
}

func TestRenderTextModeBodies(t *testing.T) {
	t.Parallel()
	empty := domain.Step{Type: domain.StepText, Content: domain.StepContent{Mode: domain.ContentText}}
	if got := domain.RenderStepBody(empty); got != domain.EmptyTextMarker {
		t.Fatalf("expected empty marker, got %q", got)
	}
	quiz := domain.Step{Type: domain.StepChoice, Content: domain.StepContent{Mode: domain.ContentText, Text: "What?"}}
	if got := domain.RenderStepBody(quiz); got != "What?" {
		t.Fatalf("expected plain text, got %q", got)
	}
}

func TestRenderDefaultModeKeepsTypeBodies(t *testing.T) {
	t.Parallel()
	in := domain.AssemblyInput{
		Course:   domain.CourseRecord{ID: 1, Title: "c"},
		Sections: []domain.SectionRecord{{ID: 1, Position: 1, Units: []int64{1}}},
		Units:    []domain.UnitRecord{{ID: 1, Section: 1, Lesson: 1, Position: 1}},
		Lessons:  []domain.LessonRecord{{ID: 1, Title: "l", Steps: []int64{1, 2, 3, 4}}},
		Steps: map[int64][]domain.StepRecord{1: {
			{ID: 1, Position: 1, Block: domain.Block{Name: "code", Text: "<p>Write fizzbuzz</p>"}},
			{ID: 2, Position: 2, Block: domain.Block{Name: "video", Video: &domain.Video{URLs: []domain.VideoURL{{Quality: "720", URL: "https://v/720.mp4"}}}}},
			{ID: 3, Position: 3, Block: domain.Block{Name: "matching", Text: "<p>Match</p>"}},
			{ID: 4, Position: 4, Block: domain.Block{Name: "choice", Text: "<p>Pick</p>", Options: []byte(`[{"text":"A"},{"text":"B"}]`)}},
		}},
	}
	steps := domain.Assemble(in, domain.ExtractorFor(domain.ContentText)).Course.Sections[0].Lessons[0].Steps

	want := []string{
		"```python\n# Write your code here\n```",
		"### Video\n[720p](https://v/720.mp4)",
		"",
		"Pick\n\nOptions:\n1. A\n2. B",
	}
	for i, s := range steps {
		if got := domain.RenderStepBody(s); got != want[i] {
			t.Fatalf("%s body = %q, want %q", s.Type, got, want[i])
		}
	}
}

func TestRenderLesson(t *testing.T) {
	t.Parallel()
	lesson := domain.Assemble(sampleInput(), nil).Course.Sections[0].Lessons[0]
	want := strings.Join([]string{
		"# 1.1 Intro",
		"<!-- lesson_id: 1001 -->",
		"",
		"## Шаг TEXT 1",
		"<!-- step_id: 1 -->",
		"step 1",
		"---",
		"",
		"## Шаг VIDEO 2",
		"<!-- step_id: 2 -->",
		"### Video",
		"---",
		"",
	}, "\n")
	if got := domain.RenderLesson(lesson); got != want {
		t.Fatalf("unexpected lesson markdown:\n%s\nwant:\n%s", got, want)
	}
}
