// Package state owns the in-memory application collections. Every read and
// mutation goes through View or Mutate, which serialise access with a
// single lock; callers must not retain pointers obtained inside the
// callbacks.
package state

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/models"
)

type Data struct {
	Entities     []models.Entity
	RFPs         []models.RFP
	SearchAreas  []models.SearchArea
	Users        []models.User
	Preferences  map[string]string
	LastSyncTime *time.Time
	// UserIDSeq is the highest user id issued so far. It never decreases,
	// so ids of deleted users are not handed out again.
	UserIDSeq    int64
}

type State struct {
	mu   sync.RWMutex
	data Data
}

func New() *State {
	return &State{data: Data{Preferences: map[string]string{}}}
}

// View runs fn with shared access.
func (s *State) View(fn func(d *Data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// Mutate runs fn with exclusive access and returns its error.
func (s *State) Mutate(fn func(d *Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

// Snapshot returns a deep copy of every collection.
func (s *State) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

func (d *Data) Clone() Data {
	c := Data{
		Entities:    slices.Clone(d.Entities),
		RFPs:        make([]models.RFP, len(d.RFPs)),
		SearchAreas: make([]models.SearchArea, len(d.SearchAreas)),
		Users:       make([]models.User, len(d.Users)),
		Preferences: maps.Clone(d.Preferences),
		UserIDSeq:   d.UserIDSeq,
	}
	for i, r := range d.RFPs {
		r.Requirements = slices.Clone(r.Requirements)
		c.RFPs[i] = r
	}
	for i, a := range d.SearchAreas {
		c.SearchAreas[i] = a.Clone()
	}
	for i, u := range d.Users {
		c.Users[i] = u.Clone()
	}
	if d.LastSyncTime != nil {
		t := *d.LastSyncTime
		c.LastSyncTime = &t
	}
	if c.Preferences == nil {
		c.Preferences = map[string]string{}
	}
	return c
}

func (d *Data) UserByID(id int64) (*models.User, bool) {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i], true
		}
	}
	return nil, false
}

// UserByEmail matches case-insensitively.
func (d *Data) UserByEmail(email string) (*models.User, bool) {
	email = models.NormalizeEmail(email)
	for i := range d.Users {
		if strings.EqualFold(d.Users[i].Email, email) {
			return &d.Users[i], true
		}
	}
	return nil, false
}

// NextUserID issues a new id above every id issued before, including those
// of deleted users. Call it only under Mutate and persist UserIDSeq.
func (d *Data) NextUserID() int64 {
	for _, u := range d.Users {
		d.UserIDSeq = max(d.UserIDSeq, u.ID)
	}
	d.UserIDSeq++
	return d.UserIDSeq
}

func (d *Data) RemoveUser(id int64) bool {
	n := len(d.Users)
	d.Users = slices.DeleteFunc(d.Users, func(u models.User) bool { return u.ID == id })
	return len(d.Users) != n
}

func (d *Data) SearchAreaByID(id string) (*models.SearchArea, bool) {
	for i := range d.SearchAreas {
		if d.SearchAreas[i].ID == id {
			return &d.SearchAreas[i], true
		}
	}
	return nil, false
}

func (d *Data) RemoveSearchArea(id string) bool {
	n := len(d.SearchAreas)
	d.SearchAreas = slices.DeleteFunc(d.SearchAreas, func(a models.SearchArea) bool { return a.ID == id })
	return len(d.SearchAreas) != n
}

func (d *Data) RFPByID(id int64) (*models.RFP, bool) {
	for i := range d.RFPs {
		if d.RFPs[i].ID == id {
			return &d.RFPs[i], true
		}
	}
	return nil, false
}
