package domain

func IndexLessons(lessons []LessonRecord) map[int64]LessonRecord {
	out := make(map[int64]LessonRecord, len(lessons))
	for _, lesson := range lessons {
		out[lesson.ID] = lesson
	}
	return out
}

// UnitsForSection keeps fetch order; sorting is the assembler's job.
func UnitsForSection(units []UnitRecord, sectionID int64) []UnitRecord {
	out := make([]UnitRecord, 0)
	for _, unit := range units {
		if unit.Section == sectionID {
			out = append(out, unit)
		}
	}
	return out
}

func IndexStepSources(sources []StepSourceRecord) map[int64]StepSourceRecord {
	out := make(map[int64]StepSourceRecord, len(sources))
	for _, source := range sources {
		out[source.ID] = source
	}
	return out
}

// UniqueIDs returns ids without duplicates, first occurrence wins.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
