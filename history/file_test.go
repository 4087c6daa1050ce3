package history

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStore_Append_And_ReadAll_In_Order(t *testing.T) {
	req := require.New(t)
	store := NewFileStore(t.TempDir(), slog.Default())

	req.NoError(store.Append("HEIG-VD", "alice", "m1"))
	req.NoError(store.Append("HEIG-VD", "bob", "m2 with spaces"))

	records, err := store.ReadAll("HEIG-VD")
	req.NoError(err)
	req.Equal([]string{"alice m1", "bob m2 with spaces"}, records)
}

func TestFileStore_Unused_Group_Reads_Back_Empty(t *testing.T) {
	req := require.New(t)
	store := NewFileStore(t.TempDir(), slog.Default())

	records, err := store.ReadAll("SPORT")
	req.NoError(err)
	req.Empty(records)
}

func TestFileStore_Groups_Do_Not_Mix(t *testing.T) {
	req := require.New(t)
	store := NewFileStore(t.TempDir(), slog.Default())

	req.NoError(store.Append("HEIG-VD", "alice", "school"))
	req.NoError(store.Append("SPORT", "alice", "gym"))

	records, err := store.ReadAll("HEIG-VD")
	req.NoError(err)
	req.Equal([]string{"alice school"}, records)
}

func TestFileStore_Lowercases_The_Storage_Path(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	store := NewFileStore(dir, slog.Default())

	req.NoError(store.Append("HEIG-VD", "alice", "m1"))

	_, err := os.Stat(filepath.Join(dir, "heig-vd.txt"))
	req.NoError(err)
}

func TestFileStore_Concurrent_Appends_Do_Not_Interleave(t *testing.T) {
	req := require.New(t)
	store := NewFileStore(t.TempDir(), slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req.NoError(store.Append("VOITURE", "alice", "same payload every time"))
		}()
	}
	wg.Wait()

	records, err := store.ReadAll("VOITURE")
	req.NoError(err)
	req.Len(records, 20)
	for _, record := range records {
		req.Equal("alice same payload every time", record)
	}
}
