package session

import "encoding/json"

// Store is the single persisted session slot. There is at most one session
// per client; Save fully replaces the slot and Clear empties it.
//
// Implementations are total: Load returns nil for an absent or unreadable
// slot instead of surfacing an error, so callers always have a safe read.
type Store interface {
	Load() *Record
	Save(*Record) error
	Clear() error
}

// CurrentRole derives the role of whatever record the store currently holds.
func CurrentRole(s Store) Role {
	return s.Load().ResolveRole()
}

// decodeRecord deserializes a slot payload, degrading to nil on corruption.
func decodeRecord(data []byte) *Record {
	if len(data) == 0 {
		return nil
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil
	}
	return &r
}
