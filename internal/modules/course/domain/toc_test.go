package domain_test

import (
	"strings"
	"testing"

	"coursemenu/internal/modules/course/domain"
)

func TestTOCRoundTrip(t *testing.T) {
	t.Parallel()
	course := domain.Assemble(sampleInput(), nil).Course
	raw, err := domain.EncodeTOC(domain.BuildTOC(course))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := domain.DecodeTOC(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Counts() != course.Counts() {
		t.Fatalf("counts differ: toc %+v tree %+v", back.Counts(), course.Counts())
	}
	lesson := back.Course.Sections[0].Lessons[1]
	if lesson.Menu != "1.2" || lesson.File != "01_First/1.2_Setup.md" {
		t.Fatalf("unexpected lesson entry: %+v", lesson)
	}
}

func TestTOCKeyOrderAndUnicode(t *testing.T) {
	t.Parallel()
	course := domain.Course{ID: 5, Title: "Курс", Progress: "0/0"}
	raw, err := domain.EncodeTOC(domain.BuildTOC(course))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, "title: Курс") {
		t.Fatalf("expected unescaped unicode title, got:\n%s", text)
	}
	id := strings.Index(text, "id:")
	title := strings.Index(text, "title:")
	progress := strings.Index(text, "progress:")
	sections := strings.Index(text, "sections:")
	if !(id < title && title < progress && progress < sections) {
		t.Fatalf("keys not in insertion order:\n%s", text)
	}
}
