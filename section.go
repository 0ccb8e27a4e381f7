package prepcat

// Section identifies a screen of the portal.
type Section string

// Sections of the portal. SectionHome is the initial section.
const (
	SectionHome          Section = "home"
	SectionSubjects      Section = "subjects"
	SectionSubjectDetail Section = "subject-detail"
	SectionPreviousYears Section = "previous-years"
	SectionYearDetail    Section = "year-detail"
	SectionViewer        Section = "viewer"
)

// Sections lists every section in navigation menu order.
var Sections = []Section{
	SectionHome,
	SectionSubjects,
	SectionSubjectDetail,
	SectionPreviousYears,
	SectionYearDetail,
	SectionViewer,
}

// ParseSection converts a section name into a Section.
// Returns EINVALID for unknown names.
func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if !sec.Valid() {
		return "", Errorf(EINVALID, "unknown section %q", s)
	}
	return sec, nil
}

// Valid reports whether s is one of the known sections.
func (s Section) Valid() bool {
	for _, sec := range Sections {
		if s == sec {
			return true
		}
	}
	return false
}

// ActiveLinks returns the menu links highlighted while s is shown.
// Detail sections highlight their parent listing; the viewer highlights both
// listings since it can be reached from either.
func (s Section) ActiveLinks() []Section {
	switch s {
	case SectionSubjectDetail:
		return []Section{SectionSubjectDetail, SectionSubjects}
	case SectionYearDetail:
		return []Section{SectionYearDetail, SectionPreviousYears}
	case SectionViewer:
		return []Section{SectionViewer, SectionSubjects, SectionPreviousYears}
	default:
		return []Section{s}
	}
}
