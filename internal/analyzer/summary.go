package analyzer

import "strings"

// Section is one block of the narrative. Level 1 and 2 sections render their
// title as a Markdown heading; level 0 sections have no heading.
type Section struct {
	Level int
	Title string
	Lines []string
}

// Summary is the narrative produced for one dataset.
type Summary struct {
	Sections []Section
}

// Section returns the section with the given title, if present.
func (s *Summary) Section(title string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Title == title {
			return sec, true
		}
	}
	return Section{}, false
}

func (s *Summary) add(sec Section) {
	s.Sections = append(s.Sections, sec)
}

// String renders the summary as Markdown. Every heading below the title is
// preceded by a blank line.
func (s *Summary) String() string {
	var lines []string
	for _, sec := range s.Sections {
		switch sec.Level {
		case 1:
			lines = append(lines, "# "+sec.Title)
		case 2:
			lines = append(lines, "\n## "+sec.Title)
		}
		lines = append(lines, sec.Lines...)
	}
	return strings.Join(lines, "\n")
}

func subheading(name string) string {
	return "\n### " + name
}

const maxDisplayRunes = 50

// truncate shortens values longer than 50 characters to 50 followed by "...".
func truncate(v string) string {
	r := []rune(v)
	if len(r) > maxDisplayRunes {
		return string(r[:maxDisplayRunes]) + "..."
	}
	return v
}
