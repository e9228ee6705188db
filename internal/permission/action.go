package permission

import "strings"

// Action is a capability string of the form "<resource>.<verb>".
type Action string

const Wildcard Action = "*"

const (
	UsersView   Action = "users.view"
	UsersCreate Action = "users.create"
	UsersEdit   Action = "users.edit"
	UsersDelete Action = "users.delete"
	UsersInvite Action = "users.invite"

	SearchAreasView   Action = "search_areas.view"
	SearchAreasCreate Action = "search_areas.create"
	SearchAreasEdit   Action = "search_areas.edit"
	SearchAreasDelete Action = "search_areas.delete"

	EntitiesView   Action = "entities.view"
	EntitiesCreate Action = "entities.create"
	EntitiesEdit   Action = "entities.edit"
	EntitiesDelete Action = "entities.delete"

	RFPsView        Action = "rfps.view"
	RFPsCreate      Action = "rfps.create"
	RFPsEdit        Action = "rfps.edit"
	RFPsDelete      Action = "rfps.delete"
	RFPsBulkActions Action = "rfps.bulk_actions"

	ReportsView     Action = "reports.view"
	ReportsGenerate Action = "reports.generate"
	ReportsExport   Action = "reports.export"

	AuditView Action = "audit.view"

	SystemManage Action = "system.manage"
)

// Resource is the part of an Action before the dot.
type Resource string

const (
	ResourceUsers       Resource = "users"
	ResourceSearchAreas Resource = "search_areas"
	ResourceEntities    Resource = "entities"
	ResourceRFPs        Resource = "rfps"
	ResourceReports     Resource = "reports"
	ResourceAudit       Resource = "audit"
	ResourceSystem      Resource = "system"
)

// View is the read capability for r.
func (r Resource) View() Action {
	return Action(string(r) + ".view")
}

func (a Action) Resource() Resource {
	res, _, _ := strings.Cut(string(a), ".")
	return Resource(res)
}
