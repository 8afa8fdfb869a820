// Package cache stores fetched post lists on disk with a TTL.
//
// Entries live as JSON files under the cache directory (by default
// ~/.reelfeed/cache), one file per key, named by the SHA-256 of the key.
// The HTTP source writes every successful list response here and reads it
// back only when asked to serve from cache, so a stale copy can be shown
// while a fresh fetch is in flight or when the service is down.
//
// A TTL of zero disables expiry. A positive size limit evicts the oldest
// entries after each write until the directory fits.
package cache
