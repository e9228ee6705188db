package models

import (
	"slices"
	"time"
)

type SearchAreaTemplate struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Icon          string   `json:"icon"`
	Description   string   `json:"description"`
	Keywords      []string `json:"keywords"`
	Subcategories []string `json:"subcategories"`
}

type SearchArea struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Icon          string     `json:"icon"`
	Description   string     `json:"description"`
	Keywords      []string   `json:"keywords"`
	Subcategories []string   `json:"subcategories"`
	IsActive      bool       `json:"isActive"`
	IsTemplate    bool       `json:"isTemplate"`
	CreatedBy     string     `json:"createdBy"`
	CreatedAt     time.Time  `json:"createdAt"`
	Subscribers   []int64    `json:"subscribers"`
	RFPCount      int        `json:"rfpCount"`
	LastMatch     *time.Time `json:"lastMatch"`
}

// FromTemplate builds an area carrying the template's id and descriptive fields.
func FromTemplate(t SearchAreaTemplate) SearchArea {
	return SearchArea{
		ID:            t.ID,
		Name:          t.Name,
		Category:      t.Category,
		Icon:          t.Icon,
		Description:   t.Description,
		Keywords:      slices.Clone(t.Keywords),
		Subcategories: slices.Clone(t.Subcategories),
		IsTemplate:    true,
	}
}

// Subscribe adds userID to the subscriber set. It reports whether the set changed.
func (a *SearchArea) Subscribe(userID int64) bool {
	if slices.Contains(a.Subscribers, userID) {
		return false
	}
	a.Subscribers = append(a.Subscribers, userID)
	return true
}

func (a *SearchArea) HasSubscriber(userID int64) bool {
	return slices.Contains(a.Subscribers, userID)
}

func (a SearchArea) Clone() SearchArea {
	c := a
	c.Keywords = slices.Clone(a.Keywords)
	c.Subcategories = slices.Clone(a.Subcategories)
	c.Subscribers = slices.Clone(a.Subscribers)
	if a.LastMatch != nil {
		t := *a.LastMatch
		c.LastMatch = &t
	}
	return c
}

// Unsubscribe removes userID from the subscriber set. It reports whether the set changed.
func (a *SearchArea) Unsubscribe(userID int64) bool {
	n := len(a.Subscribers)
	a.Subscribers = slices.DeleteFunc(slices.Clone(a.Subscribers), func(id int64) bool { return id == userID })
	return len(a.Subscribers) != n
}
