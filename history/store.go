//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_history_store.go -package=mocks

// Package history persists the per-group message log and reads it back in
// append order. Two backends are provided: a flat-file store (one
// append-only text file per group) and a BadgerDB store.
package history

// Store is the durable per-group message log.
//
// Append must write one whole record atomically with respect to other
// appenders; ReadAll returns every record of the group in append order.
// A group that was never written to reads back as an empty sequence.
type Store interface {
	Append(group, sender, content string) error
	ReadAll(group string) ([]string, error)
}

// Record is the canonical line format of one history entry.
func Record(sender, content string) string {
	return sender + " " + content
}
