package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached value with its expiry.
type Entry struct {
	// Key is the caller's key, kept so entries can be matched by prefix.
	Key string `json:"key"`

	Data json.RawMessage `json:"data"`

	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is zero for entries that never expire.
	ExpiresAt time.Time `json:"expires_at"`
}

func newEntry(key string, data json.RawMessage, ttl time.Duration, now time.Time) *Entry {
	e := &Entry{Key: key, Data: data, CreatedAt: now}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	return e
}

// ExpiredAt reports whether the entry is past its expiry at t.
func (e *Entry) ExpiredAt(t time.Time) bool {
	return !e.ExpiresAt.IsZero() && t.After(e.ExpiresAt)
}

// AgeAt returns how old the entry is at t.
func (e *Entry) AgeAt(t time.Time) time.Duration {
	return t.Sub(e.CreatedAt)
}

// Decode unmarshals the cached data into v.
func (e *Entry) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}
