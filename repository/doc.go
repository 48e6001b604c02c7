// Package repository implements the resource metadata repository on BoltDB.
//
// Records are stored as JSON values keyed by a big-endian encoded internal
// id taken from the bucket sequence; a separate bucket indexes public UUIDs
// to internal ids, since all external lookups go through the UUID. Bolt's
// single-writer transactions give the read-your-writes guarantee the
// storage engine assumes for individual records.
package repository
