package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            1234,
		LogLevel:        "INFO",
		OutboundBuffer:  32,
		HistoryBackend:  "file",
		HistoryDir:      ".",
		CharReplacement: "*",
		MetricInterval:  30 * time.Second,
		RestartInterval: 200 * time.Millisecond,
	}
}

func TestConfig_Validate_Port_Bounds(t *testing.T) {
	req := require.New(t)

	config := validConfig()
	req.NoError(config.Validate())

	config.Port = 1024
	req.Error(config.Validate())

	config.Port = 65536
	req.Error(config.Validate())
}

func TestConfig_Validate_History_Backend(t *testing.T) {
	req := require.New(t)

	config := validConfig()
	config.HistoryBackend = "badger"
	req.NoError(config.Validate())

	config.HistoryBackend = "postgres"
	req.Error(config.Validate())
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("*")
	req.NoError(err)
	req.Equal('*', r)

	_, err = CharacterRune("")
	req.Error(err)

	_, err = CharacterRune("**")
	req.Error(err)
}
