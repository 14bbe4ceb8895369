package domain

import (
	"fmt"
	"sort"
)

// AssemblyInput holds the flat entity lists fetched for one course. Steps
// are keyed by lesson ID, Sources by step ID.
type AssemblyInput struct {
	Course   CourseRecord
	Sections []SectionRecord
	Units    []UnitRecord
	Lessons  []LessonRecord
	Steps    map[int64][]StepRecord
	Sources  map[int64]StepSourceRecord
}

// DanglingRef is a unit whose lesson could not be resolved.
type DanglingRef struct {
	SectionID int64
	UnitID    int64
	LessonID  int64
}

func (d DanglingRef) String() string {
	return fmt.Sprintf("section %d unit %d -> lesson %d", d.SectionID, d.UnitID, d.LessonID)
}

type Assembly struct {
	Course   Course
	Dangling []DanglingRef
}

// Assemble rebuilds the ordered course tree. Sections, units and steps are
// ranked by a stable sort on their raw position, so equal positions keep
// fetch order. A unit that points at an unknown lesson still consumes its
// rank, leaving a gap in the lesson numbering of its section.
func Assemble(in AssemblyInput, extractor ContentExtractor) Assembly {
	if extractor == nil {
		extractor = ExtractorFor(ContentText)
	}
	lessons := IndexLessons(in.Lessons)

	sections := append([]SectionRecord(nil), in.Sections...)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Position < sections[j].Position })

	out := Assembly{Course: Course{ID: in.Course.ID, Title: in.Course.Title}}
	totalSteps := 0
	for i, rec := range sections {
		section := Section{Position: i + 1, ID: rec.ID, Title: rec.Title}

		units := UnitsForSection(in.Units, rec.ID)
		sort.SliceStable(units, func(a, b int) bool { return units[a].Position < units[b].Position })

		for rank, unit := range units {
			lessonRec, ok := lessons[unit.Lesson]
			if !ok {
				out.Dangling = append(out.Dangling, DanglingRef{SectionID: rec.ID, UnitID: unit.ID, LessonID: unit.Lesson})
				continue
			}
			lesson := Lesson{
				SectionPosition: section.Position,
				LessonPosition:  rank + 1,
				ID:              lessonRec.ID,
				Title:           lessonRec.Title,
				Steps:           assembleSteps(in.Steps[lessonRec.ID], in.Sources, extractor),
			}
			totalSteps += len(lesson.Steps)
			section.Lessons = append(section.Lessons, lesson)
		}
		out.Course.Sections = append(out.Course.Sections, section)
	}
	out.Course.Progress = fmt.Sprintf("0/%d", totalSteps)
	return out
}

func assembleSteps(records []StepRecord, sources map[int64]StepSourceRecord, extractor ContentExtractor) []Step {
	if len(records) == 0 {
		return nil
	}
	sorted := append([]StepRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	steps := make([]Step, 0, len(sorted))
	for i, rec := range sorted {
		var source *StepSourceRecord
		if src, ok := sources[rec.ID]; ok {
			source = &src
		}
		stepType := StepType(rec.Block.Name)
		steps = append(steps, Step{
			Position: i + 1,
			ID:       rec.ID,
			Type:     stepType,
			Title:    StepTitle(stepType, i+1),
			Content:  extractor.Extract(rec, source),
		})
	}
	return steps
}
