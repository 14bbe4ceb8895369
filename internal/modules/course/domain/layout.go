package domain

import (
	"fmt"
	"path"

	"coursemenu/internal/platform/slug"
)

const MenuFileName = "left_menu.txt"

func CourseDir(c Course) string {
	return slug.Padded(c.ID) + "_" + slug.Filename(c.Title)
}

func SectionDir(s Section) string {
	return slug.Padded(int64(s.Position)) + "_" + slug.Filename(s.Title)
}

func LessonFile(l Lesson) string {
	return l.MenuNumber() + "_" + slug.Filename(l.Title) + ".md"
}

// LessonPath is relative to the course directory and always uses "/".
func LessonPath(s Section, l Lesson) string {
	return path.Join(SectionDir(s), LessonFile(l))
}

func TOCFileName(c Course) string {
	return fmt.Sprintf("toc_%d.yaml", c.ID)
}

type ExportFile struct {
	Path    string
	Content []byte
}

// ExportBundle is everything written for one course. Dir is relative to the
// output root; file paths are relative to Dir.
type ExportBundle struct {
	Dir   string
	Dirs  []string
	Files []ExportFile
}

func (b ExportBundle) TOCPath() string {
	for _, f := range b.Files {
		if path.Ext(f.Path) == ".yaml" {
			return f.Path
		}
	}
	return ""
}

func BuildExport(c Course) (ExportBundle, error) {
	bundle := ExportBundle{Dir: CourseDir(c)}
	bundle.Files = append(bundle.Files, ExportFile{Path: MenuFileName, Content: []byte(RenderMenu(c))})
	for _, section := range c.Sections {
		bundle.Dirs = append(bundle.Dirs, SectionDir(section))
		for _, lesson := range section.Lessons {
			bundle.Files = append(bundle.Files, ExportFile{
				Path:    LessonPath(section, lesson),
				Content: []byte(RenderLesson(lesson)),
			})
		}
	}
	toc, err := EncodeTOC(BuildTOC(c))
	if err != nil {
		return ExportBundle{}, err
	}
	bundle.Files = append(bundle.Files, ExportFile{Path: TOCFileName(c), Content: toc})
	return bundle, nil
}
