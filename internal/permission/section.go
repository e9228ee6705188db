package permission

// Section is a navigation target of the client.
type Section string

const (
	SectionDashboard   Section = "dashboard"
	SectionSearchAreas Section = "search-areas"
	SectionRFPs        Section = "rfps"
	SectionUsers       Section = "users"
	SectionAudit       Section = "audit"
	SectionReports     Section = "reports"
	SectionSystem      Section = "system"
	SectionProfile     Section = "profile"
)

var Sections = []Section{
	SectionDashboard,
	SectionSearchAreas,
	SectionRFPs,
	SectionUsers,
	SectionAudit,
	SectionReports,
	SectionSystem,
	SectionProfile,
}

// sectionGates maps gated sections to the resource that must be readable.
// The system section needs system.manage and is handled separately.
var sectionGates = map[Section]Resource{
	SectionSearchAreas: ResourceSearchAreas,
	SectionRFPs:        ResourceRFPs,
	SectionUsers:       ResourceUsers,
	SectionAudit:       ResourceAudit,
	SectionReports:     ResourceReports,
}

func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}
