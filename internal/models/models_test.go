package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("super   ADMIN")
	require.True(t, ok)
	assert.Equal(t, RoleSuperAdmin, r)

	_, ok = ParseRole("Owner")
	assert.False(t, ok)
	assert.False(t, Role("Owner").Valid())
	assert.True(t, RoleViewer.Valid())
}

func TestParseRFPStatus(t *testing.T) {
	s, ok := ParseRFPStatus(" tracked")
	require.True(t, ok)
	assert.Equal(t, RFPTracked, s)

	_, ok = ParseRFPStatus("Closed")
	assert.False(t, ok)
}

func TestUser_RedactedDropsSecrets(t *testing.T) {
	u := User{ID: 7, Email: "a@b.co", Salt: []byte{1}, Verifier: []byte{2}, Subscriptions: []string{"sap"}}

	r := u.Redacted()
	assert.Nil(t, r.Salt)
	assert.Nil(t, r.Verifier)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "salt")
	assert.NotContains(t, string(b), "verifier")

	r.Subscriptions[0] = "changed"
	assert.Equal(t, "sap", u.Subscriptions[0])
}

func TestUser_CloneIsDeep(t *testing.T) {
	now := time.Now()
	u := User{LastLogin: &now, Subscriptions: []string{"ai"}}
	c := u.Clone()

	c.Subscriptions[0] = "sap"
	*c.LastLogin = now.Add(time.Hour)

	assert.Equal(t, "ai", u.Subscriptions[0])
	assert.Equal(t, now, *u.LastLogin)
}

func TestSearchArea_Subscribe(t *testing.T) {
	a := FromTemplate(SearchAreaTemplate{ID: "sap", Name: "SAP", Keywords: []string{"SAP"}})
	assert.True(t, a.IsTemplate)

	assert.True(t, a.Subscribe(3))
	assert.False(t, a.Subscribe(3))
	assert.True(t, a.HasSubscriber(3))
	assert.Equal(t, []int64{3}, a.Subscribers)

	a.Subscribe(4)
	assert.True(t, a.Unsubscribe(3))
	assert.False(t, a.Unsubscribe(3))
	assert.Equal(t, []int64{4}, a.Subscribers)
}

func TestAuditEntry_Actor(t *testing.T) {
	assert.Equal(t, "System", AuditEntry{UserID: SystemActor}.Actor())
	assert.Equal(t, "42", AuditEntry{UserID: 42}.Actor())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane.doe@gov.ca", NormalizeEmail("  Jane.Doe@GOV.ca "))
}
