package applog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func Test_NewWithWriter(t *testing.T) {
	t.Run("production logs at info level", func(t *testing.T) {
		var out bytes.Buffer
		logger := NewWithWriter("production", &out)
		logger.Debug().Msg("hidden")
		logger.Info().Msg("visible")
		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), `"message":"visible"`)
	})
	t.Run("development logs at debug level", func(t *testing.T) {
		var out bytes.Buffer
		logger := NewWithWriter("development", &out)
		logger.Debug().Msg("shown")
		assert.Contains(t, out.String(), `"message":"shown"`)
	})
}

func Test_logger_tees_into_buffer(t *testing.T) {
	var out bytes.Buffer
	b := NewBuffer(10)
	logger := NewWithWriter("development", zerolog.MultiLevelWriter(&out, b))

	logger.Debug().Msg("debug only")
	logger.Info().Str("userId", "1234").Msg("Logged in")
	logger.Error().Err(errors.New("status 500")).Msg("Upstream failed")

	assert.Contains(t, out.String(), "debug only")
	recent := b.Recent()
	if assert.Len(t, recent, 2) {
		assert.Equal(t, "error", recent[0].Level)
		assert.Equal(t, "Upstream failed: status 500", recent[0].Message)
		assert.Equal(t, "info", recent[1].Level)
		assert.Equal(t, "Logged in", recent[1].Message)
	}
}
