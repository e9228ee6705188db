package seed

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = func() time.Time { return time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC) }

func TestTemplates(t *testing.T) {
	ts := Templates()
	require.Len(t, ts, 6)

	ids := make([]string, 0, len(ts))
	for _, tpl := range ts {
		ids = append(ids, tpl.ID)
	}
	assert.Equal(t, []string{"sap", "cloud", "ai", "security", "it_infrastructure", "microsoft"}, ids)

	ts[0].Keywords[0] = "mutated"
	assert.Equal(t, "SAP", Templates()[0].Keywords[0])

	tpl, ok := Template("ai")
	require.True(t, ok)
	assert.Equal(t, "AI & Machine Learning", tpl.Name)

	_, ok = Template("nope")
	assert.False(t, ok)
}

func TestSearchAreas(t *testing.T) {
	areas := New(1, fixed).SearchAreas()
	require.Len(t, areas, 6)

	for i, a := range areas {
		assert.Equal(t, i < InitiallyActive, a.IsActive, a.ID)
		assert.True(t, a.IsTemplate)
		assert.Equal(t, "System", a.CreatedBy)
		assert.GreaterOrEqual(t, a.RFPCount, 10)
		assert.Less(t, a.RFPCount, 60)
		require.NotNil(t, a.LastMatch)
		assert.False(t, a.LastMatch.After(fixed()))
	}
}

func TestUsers(t *testing.T) {
	users := New(1, fixed).Users()
	require.Len(t, users, 5)

	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	assert.Equal(t, "sarah.chen@toronto.ca", users[0].Email)
	for _, u := range users {
		assert.True(t, u.OnboardingCompleted)
		assert.True(t, u.Status == models.UserActive || u.Status == models.UserInactive)
		assert.GreaterOrEqual(t, u.SearchAreasSubscribed, 2)
		assert.Empty(t, u.Salt)
	}
}

func TestRFPs(t *testing.T) {
	g := New(7, fixed)
	ents := g.Entities()
	areas := g.SearchAreas()
	users := g.Users()

	rfps := g.RFPs(ents, areas, users)
	require.Len(t, rfps, 25)

	for i, r := range rfps {
		assert.Equal(t, int64(i+1), r.ID)
		assert.True(t, r.Status.Valid())
		assert.GreaterOrEqual(t, r.MatchScore, 70)
		assert.Less(t, r.MatchScore, 100)
		assert.True(t, r.ClosingDate.After(r.DatePosted))
		assert.NotEqual(t, "General IT", r.TechnologyArea)
		assert.Regexp(t, `^\$\d{1,3}(,\d{3})+$`, r.Value)
	}

	again := New(7, fixed)
	again.SearchAreas()
	again.Users()
	assert.Equal(t, rfps, again.RFPs(ents, areas, users), "same seed, same data")
}

func TestRFPs_NoAreasOrUsers(t *testing.T) {
	rfps := New(3, fixed).RFPs(nil, nil, nil)
	require.NotEmpty(t, rfps)
	assert.Equal(t, "General IT", rfps[0].TechnologyArea)
	assert.Equal(t, "Unassigned", rfps[0].AssignedTo)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "$1,250,000", FormatValue(1250000))
	assert.Equal(t, "$950", FormatValue(950))
}
