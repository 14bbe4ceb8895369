package markdown

import (
	"fmt"
	"strings"
)

// Doc accumulates Markdown lines; String joins them with "\n".
type Doc struct {
	lines []string
}

func (d *Doc) Line(s string) *Doc {
	d.lines = append(d.lines, s)
	return d
}

func (d *Doc) Blank() *Doc {
	return d.Line("")
}

func (d *Doc) Heading(level int, text string) *Doc {
	if level < 1 {
		level = 1
	}
	return d.Line(strings.Repeat("#", level) + " " + text)
}

func (d *Doc) Comment(key string, value any) *Doc {
	return d.Line(fmt.Sprintf("<!-- %s: %v -->", key, value))
}

func (d *Doc) Rule() *Doc {
	return d.Line("---")
}

func (d *Doc) Link(label, url string) *Doc {
	return d.Line("[" + label + "](" + url + ")")
}

func (d *Doc) Fence(lang string, body ...string) *Doc {
	d.Line("```" + lang)
	for _, line := range body {
		d.Line(line)
	}
	return d.Line("```")
}

// Numbered appends "1. a", "2. b", ...
func (d *Doc) Numbered(items []string) *Doc {
	for i, item := range items {
		d.Line(fmt.Sprintf("%d. %s", i+1, item))
	}
	return d
}

func (d *Doc) String() string {
	return strings.Join(d.lines, "\n")
}
