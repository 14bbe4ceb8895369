package domain

import (
	"encoding/json"
	"fmt"
)

// EntityClass names a remote collection. The collection endpoint and the
// response envelope key are both the class name plus "s".
type EntityClass string

const (
	ClassCourse     EntityClass = "course"
	ClassSection    EntityClass = "section"
	ClassUnit       EntityClass = "unit"
	ClassLesson     EntityClass = "lesson"
	ClassStep       EntityClass = "step"
	ClassStepSource EntityClass = "step-source"
)

func (c EntityClass) Validate() error {
	switch c {
	case ClassCourse, ClassSection, ClassUnit, ClassLesson, ClassStep, ClassStepSource:
		return nil
	default:
		return fmt.Errorf("unsupported entity class %q", string(c))
	}
}

func (c EntityClass) CollectionKey() string {
	return string(c) + "s"
}

type CourseRecord struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Summary  string  `json:"summary"`
	Sections []int64 `json:"sections"`
}

type SectionRecord struct {
	ID       int64   `json:"id"`
	Course   int64   `json:"course"`
	Title    string  `json:"title"`
	Position int     `json:"position"`
	Units    []int64 `json:"units"`
}

// UnitRecord links one lesson into one section and carries its order there.
type UnitRecord struct {
	ID       int64 `json:"id"`
	Section  int64 `json:"section"`
	Lesson   int64 `json:"lesson"`
	Position int   `json:"position"`
}

type LessonRecord struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Steps []int64 `json:"steps"`
}

type StepRecord struct {
	ID       int64 `json:"id"`
	Lesson   int64 `json:"lesson"`
	Position int   `json:"position"`
	Block    Block `json:"block"`
}

type StepSourceRecord struct {
	ID    int64 `json:"id"`
	Block Block `json:"block"`
}

type Block struct {
	Name    string          `json:"name"`
	Text    string          `json:"text"`
	Video   *Video          `json:"video,omitempty"`
	Options json.RawMessage `json:"options,omitempty"`
	Source  json.RawMessage `json:"source,omitempty"`
}

type Video struct {
	ID   int64      `json:"id"`
	URLs []VideoURL `json:"urls"`
}

type VideoURL struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type choiceOption struct {
	Text string `json:"text"`
}

// ChoiceOptions returns option texts from source.options, falling back to a
// list-shaped options field. Anything else yields nil.
func (b Block) ChoiceOptions() []string {
	var src struct {
		Options []choiceOption `json:"options"`
	}
	if len(b.Source) > 0 && json.Unmarshal(b.Source, &src) == nil && len(src.Options) > 0 {
		return optionTexts(src.Options)
	}
	var direct []choiceOption
	if len(b.Options) > 0 && json.Unmarshal(b.Options, &direct) == nil {
		return optionTexts(direct)
	}
	return nil
}

func optionTexts(opts []choiceOption) []string {
	out := make([]string, 0, len(opts))
	for _, opt := range opts {
		out = append(out, opt.Text)
	}
	return out
}
