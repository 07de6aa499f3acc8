package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvheritagevv/Knee-Rehab/pkg/logging"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	assert.Equal(zerolog.DebugLevel, logging.GetLevel("DEBUG"))
	assert.Equal(zerolog.WarnLevel, logging.GetLevel("warn"))
	assert.Equal(zerolog.Disabled, logging.GetLevel("disabled"))
	assert.Equal(zerolog.InfoLevel, logging.GetLevel("whatever"))
}

func TestSetupWritesToFile(t *testing.T) {
	assert := assert.New(t)

	base := filepath.Join(t.TempDir(), "rehab")

	closer := logging.Setup(logging.SetupParams{LogFileName: base, LogLevel: "debug"})

	log.Debug().Str("date", "2024-01-07").Msg("saved daily log")
	log.Trace().Msg("too detailed")

	require.NoError(t, closer.Close())

	data, err := os.ReadFile(base + ".log")
	require.NoError(t, err)
	assert.Contains(string(data), "saved daily log")
	assert.Contains(string(data), "date=2024-01-07")
	assert.NotContains(string(data), "too detailed")

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
