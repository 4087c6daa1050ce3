package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config defines the server-side environment variables. Port bounds match
// the deployment convention: unprivileged, below the ephemeral ceiling.
type Config struct {
	Host           string `env:"HOST,default=0.0.0.0"`
	Port           int    `env:"PORT,default=1234" validate:"min=1025,max=65535"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	OutboundBuffer int    `env:"OUTBOUND_BUFFER,default=32" validate:"min=1"`

	// History persistence: flat per-group text files or BadgerDB.
	HistoryBackend string `env:"HISTORY_BACKEND,default=file" validate:"oneof=file badger"`
	HistoryDir     string `env:"HISTORY_DIR,default=."`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/history"`

	// Moderation is disabled unless a word list is configured.
	CensoredWordsPath string `env:"CENSORED_WORDS_PATH"`
	CharReplacement   string `env:"CHARACTER_REPLACEMENT,default=*"`

	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CharacterRune enforces that the configured replacement is one rune.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
