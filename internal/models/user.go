package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleSuperAdmin Role = "Super Admin"
	RoleAdmin      Role = "Admin"
	RoleManager    Role = "Manager"
	RoleEditor     Role = "Editor"
	RoleViewer     Role = "Viewer"
)

// Roles lists every known role, most privileged first.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleManager, RoleEditor, RoleViewer}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole matches s against the known roles ignoring case and spacing.
func ParseRole(s string) (Role, bool) {
	norm := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	for _, r := range Roles {
		if strings.ToLower(string(r)) == norm {
			return r, true
		}
	}
	return "", false
}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserInvited  UserStatus = "invited"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive || s == UserInvited
}

// SystemActor is the actor id recorded when nobody is signed in.
const SystemActor int64 = 0

type Preferences struct {
	EmailNotifications bool   `json:"emailNotifications"`
	InstantAlerts      bool   `json:"instantAlerts"`
	WeeklyReports      bool   `json:"weeklyReports"`
	DashboardLayout    string `json:"dashboardLayout"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		EmailNotifications: true,
		InstantAlerts:      false,
		WeeklyReports:      true,
		DashboardLayout:    "default",
	}
}

type User struct {
	ID                    int64       `json:"id"`
	Name                  string      `json:"name"`
	Email                 string      `json:"email"`
	Department            string      `json:"department"`
	Role                  Role        `json:"role"`
	Avatar                string      `json:"avatar"`
	Status                UserStatus  `json:"status"`
	LastLogin             *time.Time  `json:"lastLogin"`
	CreatedAt             time.Time   `json:"createdAt"`
	SearchAreasSubscribed int         `json:"searchAreasSubscribed"`
	Subscriptions         []string    `json:"subscriptions"`
	Timezone              string      `json:"timezone"`
	Bio                   string      `json:"bio"`
	OnboardingCompleted   bool        `json:"onboardingCompleted"`
	Preferences           Preferences `json:"preferences"`

	Salt     []byte `json:"salt,omitempty"`
	Verifier []byte `json:"verifier,omitempty"`
}

// Redacted returns a copy without credential material, for exports.
func (u User) Redacted() User {
	u.Salt = nil
	u.Verifier = nil
	u.Subscriptions = append([]string(nil), u.Subscriptions...)
	return u
}

// Clone returns a deep copy.
func (u User) Clone() User {
	c := u
	c.Subscriptions = append([]string(nil), u.Subscriptions...)
	c.Salt = append([]byte(nil), u.Salt...)
	c.Verifier = append([]byte(nil), u.Verifier...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return c
}

// NormalizeEmail lower-cases and trims an address for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
