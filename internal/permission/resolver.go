// Package permission maps roles to capability sets and answers
// "may this role do X" questions. Checks are pure and never fail: unknown
// roles resolve to an empty set.
package permission

import (
	"slices"

	"github.com/dmitrijs2005/rfpmonitor/internal/models"
)

// Table is a static role -> capabilities configuration.
type Table map[models.Role][]Action

// DefaultTable is the shipped capability configuration. Every role that can
// change a resource can also view it.
var DefaultTable = Table{
	models.RoleSuperAdmin: {Wildcard},
	models.RoleAdmin: {
		UsersView, UsersCreate, UsersEdit, UsersDelete, UsersInvite,
		SearchAreasView, SearchAreasCreate, SearchAreasEdit, SearchAreasDelete,
		EntitiesView, EntitiesCreate, EntitiesEdit, EntitiesDelete,
		RFPsView, RFPsCreate, RFPsEdit, RFPsDelete, RFPsBulkActions,
		ReportsView, ReportsGenerate, ReportsExport,
		AuditView,
		SystemManage,
	},
	models.RoleManager: {
		UsersView, UsersEdit, UsersInvite,
		SearchAreasView, SearchAreasCreate, SearchAreasEdit,
		EntitiesView, EntitiesEdit,
		RFPsView, RFPsEdit, RFPsBulkActions,
		ReportsView, ReportsGenerate, ReportsExport,
	},
	models.RoleEditor: {
		SearchAreasView, SearchAreasEdit,
		EntitiesView, EntitiesEdit,
		RFPsView, RFPsEdit,
		ReportsView, ReportsGenerate,
	},
	models.RoleViewer: {
		EntitiesView,
		RFPsView,
		ReportsView,
	},
}

type Resolver struct {
	table Table
}

func NewResolver(table Table) *Resolver {
	return &Resolver{table: table}
}

// Default returns a Resolver over DefaultTable.
func Default() *Resolver {
	return NewResolver(DefaultTable)
}

// Resolve returns a copy of the role's capability set.
func (r *Resolver) Resolve(role models.Role) []Action {
	return slices.Clone(r.table[role])
}

// Authorize reports whether role holds the wildcard or action itself.
func (r *Resolver) Authorize(role models.Role, action Action) bool {
	caps := r.table[role]
	return slices.Contains(caps, Wildcard) || slices.Contains(caps, action)
}

// AuthorizeResource reports whether role may look at res: wildcard, the bare
// resource name, or "<res>.view".
func (r *Resolver) AuthorizeResource(role models.Role, res Resource) bool {
	caps := r.table[role]
	return slices.Contains(caps, Wildcard) ||
		slices.Contains(caps, Action(res)) ||
		slices.Contains(caps, res.View())
}

// AuthorizeSection gates navigation. Dashboard and profile are open to any
// known role.
func (r *Resolver) AuthorizeSection(role models.Role, section Section) bool {
	if _, known := r.table[role]; !known {
		return false
	}
	switch section {
	case SectionDashboard, SectionProfile:
		return true
	case SectionSystem:
		return r.Authorize(role, SystemManage)
	}
	res, ok := sectionGates[section]
	if !ok {
		return false
	}
	return r.AuthorizeResource(role, res)
}
