// Package seed supplies the template catalogue and the demo data used to
// populate an empty store.
package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dustin/go-humanize"
)

// InitiallyActive is how many leading templates start active.
const InitiallyActive = 4

const (
	mockRFPCount = 25
	createdBy    = "System"
	day          = 24 * time.Hour
)

var templates = []models.SearchAreaTemplate{
	{
		ID:            "sap",
		Name:          "SAP",
		Category:      "ERP",
		Icon:          "🏢",
		Description:   "SAP enterprise solutions",
		Keywords:      []string{"SAP", "S/4HANA", "Ariba", "SuccessFactors", "Concur", "ERP", "HANA"},
		Subcategories: []string{"ERP", "HR", "Procurement", "Analytics"},
	},
	{
		ID:            "cloud",
		Name:          "Cloud Services",
		Category:      "Infrastructure",
		Icon:          "☁️",
		Description:   "Cloud infrastructure and services",
		Keywords:      []string{"AWS", "Azure", "Google Cloud", "GCP", "cloud migration", "hybrid cloud", "multi-cloud"},
		Subcategories: []string{"IaaS", "PaaS", "SaaS", "Migration"},
	},
	{
		ID:            "ai",
		Name:          "AI & Machine Learning",
		Category:      "Technology",
		Icon:          "🤖",
		Description:   "Artificial Intelligence and ML solutions",
		Keywords:      []string{"AI", "machine learning", "ML", "artificial intelligence", "neural networks", "deep learning", "automation"},
		Subcategories: []string{"Analytics", "Automation", "Computer Vision", "NLP"},
	},
	{
		ID:            "security",
		Name:          "Cyber Security",
		Category:      "Security",
		Icon:          "🔒",
		Description:   "Cybersecurity and information security",
		Keywords:      []string{"cybersecurity", "SIEM", "endpoint protection", "network security", "firewall", "threat detection"},
		Subcategories: []string{"Network Security", "Endpoint", "SIEM", "Identity Management"},
	},
	{
		ID:            "it_infrastructure",
		Name:          "IT Infrastructure",
		Category:      "Infrastructure",
		Icon:          "💻",
		Description:   "IT infrastructure and networking",
		Keywords:      []string{"networking", "servers", "storage", "data center", "infrastructure", "hardware"},
		Subcategories: []string{"Networking", "Storage", "Servers", "Data Center"},
	},
	{
		ID:            "microsoft",
		Name:          "Microsoft",
		Category:      "Software",
		Icon:          "📊",
		Description:   "Microsoft enterprise solutions",
		Keywords:      []string{"Microsoft", "Office 365", "SharePoint", "Dynamics", "Azure AD", "Teams"},
		Subcategories: []string{"Office 365", "SharePoint", "Dynamics", "Azure"},
	},
}

var entities = []models.Entity{
	{Name: "City of Toronto", Type: "City", TechnologyUsage: "SAP ERP, Microsoft 365, Oracle Database", Source: "Municipal Technology Assessment", Province: "Ontario", Country: "Canada"},
	{Name: "City of Vancouver", Type: "City", TechnologyUsage: "SAP S/4HANA, AWS Cloud, Salesforce", Source: "Digital Strategy Report", Province: "British Columbia", Country: "Canada"},
	{Name: "Government of Alberta", Type: "Province", TechnologyUsage: "Microsoft Azure, SAP Ariba, Oracle Cloud", Source: "IT Modernization Plan", Province: "Alberta", Country: "Canada"},
	{Name: "Hydro-Québec", Type: "Utility", TechnologyUsage: "SAP S/4HANA, Azure Cloud, AI Analytics", Source: "Technology Roadmap", Province: "Quebec", Country: "Canada"},
	{Name: "Toronto Transit Commission", Type: "Transit", TechnologyUsage: "SAP ERP, Microsoft Dynamics, IoT Sensors", Source: "Digital Infrastructure Report", Province: "Ontario", Country: "Canada"},
}

type mockUser struct {
	name, email, department string
	role                    models.Role
}

var mockUsers = []mockUser{
	{"Sarah Chen", "sarah.chen@toronto.ca", "IT", models.RoleAdmin},
	{"Michael Rodriguez", "michael.rodriguez@vancouver.ca", "Procurement", models.RoleManager},
	{"Emily Johnson", "emily.johnson@alberta.ca", "Digital Services", models.RoleEditor},
	{"David Kim", "david.kim@hydro.qc.ca", "Technology", models.RoleManager},
	{"Lisa Thompson", "lisa.thompson@ttc.ca", "IT Operations", models.RoleEditor},
}

type rfpTemplate struct {
	title string
	area  string
	value int64
}

var rfpTemplates = []rfpTemplate{
	{"SAP S/4HANA Implementation Services", "sap", 2500000},
	{"Cloud Infrastructure Migration to AWS", "cloud", 1800000},
	{"AI-Powered Analytics Platform", "ai", 950000},
	{"Cybersecurity Assessment and Implementation", "security", 1200000},
	{"Network Infrastructure Upgrade", "it_infrastructure", 800000},
	{"Microsoft 365 Migration and Support", "microsoft", 650000},
}

// Templates returns a copy of the search area catalogue.
func Templates() []models.SearchAreaTemplate {
	out := make([]models.SearchAreaTemplate, len(templates))
	for i, t := range templates {
		t.Keywords = append([]string(nil), t.Keywords...)
		t.Subcategories = append([]string(nil), t.Subcategories...)
		out[i] = t
	}
	return out
}

// Template looks up a catalogue entry by id.
func Template(id string) (models.SearchAreaTemplate, bool) {
	for _, t := range Templates() {
		if t.ID == id {
			return t, true
		}
	}
	return models.SearchAreaTemplate{}, false
}

// Generator produces demo collections. The same seed and clock yield the
// same data.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

func New(seed uint64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: now,
	}
}

func (g *Generator) Entities() []models.Entity {
	return append([]models.Entity(nil), entities...)
}

// SearchAreas instantiates every template; the first InitiallyActive are active.
func (g *Generator) SearchAreas() []models.SearchArea {
	now := g.now().UTC()
	out := make([]models.SearchArea, 0, len(templates))
	for i, t := range Templates() {
		a := models.FromTemplate(t)
		a.IsActive = i < InitiallyActive
		a.CreatedBy = createdBy
		a.CreatedAt = now
		a.RFPCount = g.rnd.IntN(50) + 10
		lastMatch := now.Add(-time.Duration(g.rnd.Int64N(int64(7 * day))))
		a.LastMatch = &lastMatch
		out = append(out, a)
	}
	return out
}

func (g *Generator) Users() []models.User {
	now := g.now().UTC()
	out := make([]models.User, 0, len(mockUsers))
	for i, m := range mockUsers {
		status := models.UserActive
		if g.rnd.Float64() <= 0.1 {
			status = models.UserInactive
		}
		lastLogin := now.Add(-time.Duration(g.rnd.Int64N(int64(30 * day))))
		prefs := models.DefaultPreferences()
		prefs.InstantAlerts = g.rnd.Float64() > 0.5

		out = append(out, models.User{
			ID:                    int64(i + 1),
			Name:                  m.name,
			Email:                 m.email,
			Department:            m.department,
			Role:                  m.role,
			Avatar:                "👤",
			Status:                status,
			LastLogin:             &lastLogin,
			CreatedAt:             now.Add(-time.Duration(g.rnd.Int64N(int64(365 * day)))),
			SearchAreasSubscribed: g.rnd.IntN(6) + 2,
			Timezone:              "America/Toronto",
			OnboardingCompleted:   true,
			Preferences:           prefs,
		})
	}
	return out
}

// RFPs generates demo opportunities linked to the given entities, areas and
// users. Areas missing from areas fall back to "General IT".
func (g *Generator) RFPs(ents []models.Entity, areas []models.SearchArea, users []models.User) []models.RFP {
	if len(ents) == 0 {
		ents = entities
	}
	today := g.now().UTC().Truncate(day)

	out := make([]models.RFP, 0, mockRFPCount)
	for i := range mockRFPCount {
		t := rfpTemplates[g.rnd.IntN(len(rfpTemplates))]
		ent := ents[g.rnd.IntN(len(ents))]

		areaName := "General IT"
		for _, a := range areas {
			if a.ID == t.area {
				areaName = a.Name
				break
			}
		}

		posted := today.AddDate(0, 0, -g.rnd.IntN(45))
		closing := posted.AddDate(0, 0, 21+g.rnd.IntN(30))

		assigned := "Unassigned"
		if len(users) > 0 {
			assigned = users[g.rnd.IntN(len(users))].Name
		}

		out = append(out, models.RFP{
			ID:             int64(i + 1),
			Title:          t.title,
			Entity:         ent.Name,
			TechnologyArea: areaName,
			AreaID:         t.area,
			Value:          FormatValue(t.value + g.rnd.Int64N(500000)),
			RawValue:       t.value,
			DatePosted:     posted,
			ClosingDate:    closing,
			Status:         models.RFPStatuses[g.rnd.IntN(len(models.RFPStatuses))],
			Description:    fmt.Sprintf("Request for proposal for %s services for %s.", strings.ToLower(t.title), ent.Name),
			Requirements:   []string{"Technical expertise", "Project management", "Implementation support"},
			MatchScore:     g.rnd.IntN(30) + 70,
			AssignedTo:     assigned,
		})
	}
	return out
}

// FormatValue renders whole dollars with thousands separators, e.g. "$1,250,000".
func FormatValue(v int64) string {
	return "$" + humanize.Comma(v)
}

// Templates exposes the catalogue through the generator.
func (g *Generator) Templates() []models.SearchAreaTemplate {
	return Templates()
}
