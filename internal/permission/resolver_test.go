package permission

import (
	"testing"

	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	r := Default()

	tests := []struct {
		role   models.Role
		action Action
		want   bool
	}{
		{models.RoleSuperAdmin, SystemManage, true},
		{models.RoleSuperAdmin, Action("anything.at_all"), true},
		{models.RoleAdmin, UsersDelete, true},
		{models.RoleAdmin, SystemManage, true},
		{models.RoleManager, UsersDelete, false},
		{models.RoleManager, UsersInvite, true},
		{models.RoleManager, RFPsBulkActions, true},
		{models.RoleEditor, SearchAreasEdit, true},
		{models.RoleEditor, SearchAreasCreate, false},
		{models.RoleEditor, RFPsBulkActions, false},
		{models.RoleViewer, RFPsEdit, false},
		{models.RoleViewer, RFPsView, true},
		{models.Role("Intern"), RFPsView, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, r.Authorize(tt.role, tt.action))
		})
	}
}

func TestAuthorize_NoViewExpansion(t *testing.T) {
	r := NewResolver(Table{"Auditor": {"audit.view"}})

	assert.False(t, r.Authorize("Auditor", Action("audit")))
	assert.True(t, r.AuthorizeResource("Auditor", ResourceAudit))
}

func TestAuthorizeResource(t *testing.T) {
	r := Default()

	assert.True(t, r.AuthorizeResource(models.RoleViewer, ResourceRFPs))
	assert.False(t, r.AuthorizeResource(models.RoleViewer, ResourceUsers))
	assert.True(t, r.AuthorizeResource(models.RoleManager, ResourceUsers))
	assert.True(t, r.AuthorizeResource(models.RoleSuperAdmin, ResourceSystem))

	bare := NewResolver(Table{"Legacy": {Action("users")}})
	assert.True(t, bare.AuthorizeResource("Legacy", ResourceUsers))
}

func TestAuthorizeSection(t *testing.T) {
	r := Default()

	for _, role := range models.Roles {
		assert.True(t, r.AuthorizeSection(role, SectionDashboard), role)
		assert.True(t, r.AuthorizeSection(role, SectionProfile), role)
	}

	assert.True(t, r.AuthorizeSection(models.RoleAdmin, SectionSystem))
	assert.False(t, r.AuthorizeSection(models.RoleManager, SectionSystem))
	assert.True(t, r.AuthorizeSection(models.RoleAdmin, SectionAudit))
	assert.False(t, r.AuthorizeSection(models.RoleManager, SectionAudit))
	assert.True(t, r.AuthorizeSection(models.RoleEditor, SectionSearchAreas))
	assert.False(t, r.AuthorizeSection(models.RoleViewer, SectionSearchAreas))
	assert.False(t, r.AuthorizeSection(models.Role("Intern"), SectionDashboard))
	assert.False(t, r.AuthorizeSection(models.RoleAdmin, Section("billing")))
}

func TestResolveReturnsCopy(t *testing.T) {
	r := Default()

	caps := r.Resolve(models.RoleViewer)
	caps[0] = SystemManage

	assert.False(t, r.Authorize(models.RoleViewer, SystemManage))
	assert.Empty(t, r.Resolve(models.Role("Intern")))
}

func TestActionResource(t *testing.T) {
	assert.Equal(t, ResourceSearchAreas, SearchAreasDelete.Resource())
	assert.Equal(t, Action("rfps.view"), ResourceRFPs.View())
}

func TestParseSection(t *testing.T) {
	s, ok := ParseSection("search-areas")
	assert.True(t, ok)
	assert.Equal(t, SectionSearchAreas, s)

	_, ok = ParseSection("billing")
	assert.False(t, ok)
}
