package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		_ = Configure(&bytes.Buffer{}, "", "")
	})

	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Configure(&buf, "debug", "json"))

		log.WithFields(log.Fields{"check": "database"}).Debug("Check passed")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "database", entry["check"])
		assert.Equal(t, "debug", entry["level"])
		assert.Equal(t, "Check passed", entry["msg"])
	})

	t.Run("level filters entries", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Configure(&buf, "warn", "text"))

		log.Info("hidden")
		assert.Empty(t, buf.String())
		assert.Equal(t, log.WarnLevel, log.GetLevel())
	})

	t.Run("defaults to info", func(t *testing.T) {
		require.NoError(t, Configure(&bytes.Buffer{}, "", ""))
		assert.Equal(t, log.InfoLevel, log.GetLevel())
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		assert.Error(t, Configure(&bytes.Buffer{}, "loud", ""))
		assert.Error(t, Configure(&bytes.Buffer{}, "", "xml"))
	})
}
