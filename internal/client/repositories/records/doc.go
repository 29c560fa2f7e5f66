// Package records is the local record store: named JSON documents that are
// always written as a whole.
//
// A Backend stores raw bytes under a logical name. Three backends exist:
// FileBackend (one file per name in the data directory, atomic replace),
// SQLiteBackend (a records table) and BoltBackend (a bbolt bucket). Store
// adds the JSON codec and the fail-soft policy: load problems yield "no
// data", save problems are logged and returned for the caller to ignore.
//
// There is no locking across writers; every name has a single owner.
package records
