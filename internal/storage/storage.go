// Package storage provides the durable local key-value store behind draft
// autosave and the gallery's first-use flags. The interface is deliberately
// tiny — get/set/delete of text values with last-write-wins semantics — so
// hosts can swap in whatever their platform offers; the shipped
// implementation is a single JSON file.
package storage

// Store is the durable local storage port.
//
// Get returns the value and true when the key exists. A missing key is
// (empty, false, nil), not an error. Set performs full-value replacement.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
