package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions
// (e.g., "he" inside "The").
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"badger", "snake", "mushroom"}
	mod, err := NewModerator(dictionary, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		matches  int
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
			matches:  1,
		},
		{
			name:     "Multiple occurrences",
			input:    "badger badger badger",
			expected: "****** ****** ******",
			matches:  3,
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "Look at B.4.d.g.€r !",
			expected: "Look at ********** !",
			matches:  1,
		},
		{
			name:     "Mixed dictionary words",
			input:    "a snake ate a mushroom",
			expected: "a ***** ate a ********",
			matches:  2,
		},
		{
			name:     "Clean text stays untouched",
			input:    "nothing to see here",
			expected: "nothing to see here",
			matches:  0,
		},
		{
			name:     "Empty input",
			input:    "",
			expected: "",
			matches:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sanitized, found := mod.Censor(tt.input)
			require.Equal(t, tt.expected, sanitized)
			require.Len(t, found, tt.matches)
		})
	}
}

func TestLoadWords_Skips_Blanks_And_Comments(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# forbidden words\nbadger\n\n  snake  \n# trailing comment\n"
	req.NoError(os.WriteFile(path, []byte(content), 0o644))

	words, err := LoadWords(path)
	req.NoError(err)
	req.Equal([]string{"badger", "snake"}, words)
}

func TestLoadWords_Missing_File(t *testing.T) {
	_, err := LoadWords(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
