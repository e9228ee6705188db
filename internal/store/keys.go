package store

// Key names a persisted collection. The names are stable on disk.
type Key string

const (
	KeyEntities        Key = "entities"
	KeyRFPs            Key = "rfps"
	KeySearchAreas     Key = "searchAreas"
	KeyUsers           Key = "users"
	KeyAuditLog        Key = "auditLog"
	KeyUserPreferences Key = "userPreferences"
	KeyLastSyncTime    Key = "lastSyncTime"
	KeyCurrentUser     Key = "currentUser"
	// KeyUserIDSeq holds the highest user id ever issued.
	KeyUserIDSeq       Key = "userIdSeq"
)

// DurableKeys are the collections a sync flushes.
var DurableKeys = []Key{
	KeyEntities,
	KeyRFPs,
	KeySearchAreas,
	KeyUsers,
	KeyAuditLog,
	KeyUserPreferences,
	KeyLastSyncTime,
	KeyUserIDSeq,
}
