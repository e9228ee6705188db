package models

import (
	"strings"
	"time"
)

type RFPStatus string

const (
	RFPNew       RFPStatus = "New"
	RFPReviewing RFPStatus = "Reviewing"
	RFPTracked   RFPStatus = "Tracked"
	RFPArchived  RFPStatus = "Archived"
)

var RFPStatuses = []RFPStatus{RFPNew, RFPReviewing, RFPTracked, RFPArchived}

func (s RFPStatus) Valid() bool {
	for _, known := range RFPStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseRFPStatus is case-insensitive.
func ParseRFPStatus(s string) (RFPStatus, bool) {
	for _, known := range RFPStatuses {
		if strings.EqualFold(string(known), strings.TrimSpace(s)) {
			return known, true
		}
	}
	return "", false
}

type RFP struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Entity         string    `json:"entity"`
	TechnologyArea string    `json:"technologyArea"`
	AreaID         string    `json:"areaId"`
	Value          string    `json:"value"`
	RawValue       int64     `json:"rawValue"`
	DatePosted     time.Time `json:"datePosted"`
	ClosingDate    time.Time `json:"closingDate"`
	Status         RFPStatus `json:"status"`
	Description    string    `json:"description"`
	Requirements   []string  `json:"requirements"`
	MatchScore     int       `json:"matchScore"`
	AssignedTo     string    `json:"assignedTo"`
}

// Entity is a public body that issues RFPs.
type Entity struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	TechnologyUsage string `json:"technologyUsage"`
	Source          string `json:"source"`
	Province        string `json:"province"`
	Country         string `json:"country"`
}
