// Package models defines the domain records persisted by the engine: users,
// search areas and their templates, RFPs, issuing entities and audit entries.
// JSON tags match the persisted key layout so existing stores stay readable.
package models

import "strconv"

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
