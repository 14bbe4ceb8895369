package domain

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TOC fields are declared in output order; yaml.v3 keeps struct order.
type TOC struct {
	Course TOCCourse `yaml:"course"`
}

type TOCCourse struct {
	ID       int64        `yaml:"id"`
	Title    string       `yaml:"title"`
	Progress string       `yaml:"progress"`
	Sections []TOCSection `yaml:"sections"`
}

type TOCSection struct {
	Position int         `yaml:"position"`
	ID       int64       `yaml:"id"`
	Title    string      `yaml:"title"`
	Lessons  []TOCLesson `yaml:"lessons"`
}

type TOCLesson struct {
	Menu     string    `yaml:"menu"`
	Position int       `yaml:"position"`
	ID       int64     `yaml:"id"`
	Title    string    `yaml:"title"`
	File     string    `yaml:"file"`
	Steps    []TOCStep `yaml:"steps"`
}

type TOCStep struct {
	Position int    `yaml:"position"`
	ID       int64  `yaml:"id"`
	Type     string `yaml:"type"`
	Title    string `yaml:"title"`
}

func BuildTOC(c Course) TOC {
	toc := TOC{Course: TOCCourse{
		ID:       c.ID,
		Title:    c.Title,
		Progress: c.Progress,
		Sections: make([]TOCSection, 0, len(c.Sections)),
	}}
	for _, section := range c.Sections {
		ts := TOCSection{
			Position: section.Position,
			ID:       section.ID,
			Title:    section.Title,
			Lessons:  make([]TOCLesson, 0, len(section.Lessons)),
		}
		for _, lesson := range section.Lessons {
			tl := TOCLesson{
				Menu:     lesson.MenuNumber(),
				Position: lesson.LessonPosition,
				ID:       lesson.ID,
				Title:    lesson.Title,
				File:     LessonPath(section, lesson),
				Steps:    make([]TOCStep, 0, len(lesson.Steps)),
			}
			for _, step := range lesson.Steps {
				tl.Steps = append(tl.Steps, TOCStep{
					Position: step.Position,
					ID:       step.ID,
					Type:     string(step.Type),
					Title:    step.Title,
				})
			}
			ts.Lessons = append(ts.Lessons, tl)
		}
		toc.Course.Sections = append(toc.Course.Sections, ts)
	}
	return toc
}

func EncodeTOC(toc TOC) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toc); err != nil {
		return nil, fmt.Errorf("encode toc: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode toc: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeTOC(raw []byte) (TOC, error) {
	var toc TOC
	if err := yaml.Unmarshal(raw, &toc); err != nil {
		return TOC{}, fmt.Errorf("decode toc: %w", err)
	}
	return toc, nil
}

func (t TOC) Counts() Counts {
	out := Counts{Sections: len(t.Course.Sections)}
	for _, s := range t.Course.Sections {
		out.Lessons += len(s.Lessons)
		for _, l := range s.Lessons {
			out.Steps += len(l.Steps)
		}
	}
	return out
}
