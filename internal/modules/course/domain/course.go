package domain

import (
	"fmt"
	"strings"
	"time"
)

type StepType string

const (
	StepText       StepType = "text"
	StepVideo      StepType = "video"
	StepChoice     StepType = "choice"
	StepSort       StepType = "sort"
	StepMatching   StepType = "matching"
	StepTable      StepType = "table"
	StepNumber     StepType = "number"
	StepString     StepType = "string"
	StepFreeAnswer StepType = "free-answer"
	StepCode       StepType = "code"
	StepAdmin      StepType = "admin"
)

// stepLabels mirrors the labels the platform shows in its left menu.
var stepLabels = map[StepType]string{
	StepText:       "TEXT",
	StepVideo:      "VIDEO",
	StepChoice:     "QUIZ",
	StepSort:       "SORT",
	StepMatching:   "MATCH",
	StepTable:      "TABLE",
	StepNumber:     "NUMBER",
	StepString:     "STRING",
	StepFreeAnswer: "ESSAY",
	StepCode:       "CODE",
	StepAdmin:      "ADMIN",
}

func (t StepType) Label() string {
	if label, ok := stepLabels[t]; ok {
		return label
	}
	return strings.ToUpper(string(t))
}

func StepTitle(t StepType, position int) string {
	return fmt.Sprintf("Шаг %s %d", t.Label(), position)
}

// ContentMode selects how step bodies are extracted.
type ContentMode string

const (
	ContentFull ContentMode = "full"
	ContentText ContentMode = "text"
)

func (m ContentMode) Validate() error {
	switch m {
	case ContentFull, ContentText:
		return nil
	default:
		return fmt.Errorf("unsupported content mode %q", string(m))
	}
}

// Credential is a bearer token obtained for a single run.
type Credential struct {
	AccessToken string
	TokenType   string
	Expiry      time.Time
}

func (c Credential) Valid() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

type Course struct {
	ID       int64
	Title    string
	Sections []Section
	Progress string
}

type Section struct {
	Position int
	ID       int64
	Title    string
	Lessons  []Lesson
}

type Lesson struct {
	SectionPosition int
	LessonPosition  int
	ID              int64
	Title           string
	Steps           []Step
}

// MenuNumber is the "section.lesson" label of the left menu, e.g. "2.1".
func (l Lesson) MenuNumber() string {
	return fmt.Sprintf("%d.%d", l.SectionPosition, l.LessonPosition)
}

type Step struct {
	Position int
	ID       int64
	Type     StepType
	Title    string
	Content  StepContent
}

type StepContent struct {
	Mode    ContentMode
	Text    string
	Videos  []VideoURL
	Options []string
	Raw     Block
}

type Counts struct {
	Sections int
	Lessons  int
	Steps    int
}

func (c Course) Counts() Counts {
	out := Counts{Sections: len(c.Sections)}
	for _, s := range c.Sections {
		out.Lessons += len(s.Lessons)
		for _, l := range s.Lessons {
			out.Steps += len(l.Steps)
		}
	}
	return out
}
