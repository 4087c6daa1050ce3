package history

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one append-only text file per group under dir, named
// after the lowercased group. This is the storage layout of the reference
// deployment: human readable, no index, replayed line by line.
type FileStore struct {
	dir string
	log *slog.Logger

	// One writer at a time. Appends are rare and small; a single mutex is
	// enough to keep records from interleaving.
	mu sync.Mutex
}

func NewFileStore(dir string, log *slog.Logger) *FileStore {
	return &FileStore{dir: dir, log: log}
}

// Append writes one record as a single write syscall on an O_APPEND
// descriptor, so concurrent appends to the same group cannot interleave
// within a record.
func (s *FileStore) Append(group, sender, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path(group), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open group log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte(Record(sender, content) + "\n")); err != nil {
		return fmt.Errorf("append group log: %w", err)
	}
	return nil
}

// ReadAll returns the group's records in file order. A group that was
// never written to yields an empty sequence, not an error.
func (s *FileStore) ReadAll(group string) ([]string, error) {
	f, err := os.Open(s.path(group))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open group log: %w", err)
	}
	defer f.Close()

	var records []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		records = append(records, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read group log: %w", err)
	}
	return records, nil
}

func (s *FileStore) path(group string) string {
	return filepath.Join(s.dir, strings.ToLower(group)+".txt")
}
