package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02_15:04:05"

// SetupParams configures the global logger.
type SetupParams struct {
	LogFileName string
	LogToStdout bool
	LogLevel    string
}

// Setup points the global zerolog logger at a rotating log file and, optionally, stdout.
// With no file name it logs to stdout only. The returned closer releases the log file.
func Setup(params SetupParams) io.Closer {
	zerolog.SetGlobalLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		log.Logger = newLogger(os.Stdout)

		return nopCloser{}
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		LocalTime:  true,
	}

	var out io.Writer = lumberJackLogger
	if params.LogToStdout {
		out = zerolog.MultiLevelWriter(lumberJackLogger, os.Stdout)
	}

	log.Logger = newLogger(out)

	return lumberJackLogger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newLogger(out io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out: out, TimeFormat: timeFormat, NoColor: out != os.Stdout,
	}).With().Timestamp().Caller().Logger()
}

// GetLevel maps a level name to a zerolog level. Unknown names mean info.
func GetLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
