package logger

import (
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog"
)

type DefaultLogger struct {
	Logger
}

var Default = &DefaultLogger{}

var (
	logger   = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	urlRegex = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*:\/\/[a-zA-Z0-9+%/.\-:_?&=#@+]+`)
)

// Source playlist URLs usually carry provider credentials.
func redact(text string) string {
	if os.Getenv("SAFE_LOGS") != "true" {
		return text
	}
	return urlRegex.ReplaceAllString(text, "[redacted url]")
}

func debugEnabled() bool {
	return os.Getenv("DEBUG") == "true"
}

func (*DefaultLogger) Log(format string) {
	logger.Info().Msg(redact(format))
}

func (*DefaultLogger) Logf(format string, v ...any) {
	logger.Info().Msg(redact(fmt.Sprintf(format, v...)))
}

func (*DefaultLogger) Debug(format string) {
	if debugEnabled() {
		logger.Debug().Msg(redact(format))
	}
}

func (*DefaultLogger) Debugf(format string, v ...any) {
	if debugEnabled() {
		logger.Debug().Msg(redact(fmt.Sprintf(format, v...)))
	}
}

func (*DefaultLogger) Error(format string) {
	logger.Error().Msg(redact(format))
}

func (*DefaultLogger) Errorf(format string, v ...any) {
	logger.Error().Msg(redact(fmt.Sprintf(format, v...)))
}

func (*DefaultLogger) Warn(format string) {
	logger.Warn().Msg(redact(format))
}

func (*DefaultLogger) Warnf(format string, v ...any) {
	logger.Warn().Msg(redact(fmt.Sprintf(format, v...)))
}

func (*DefaultLogger) Fatal(format string) {
	logger.Fatal().Msg(redact(format))
}

func (*DefaultLogger) Fatalf(format string, v ...any) {
	logger.Fatal().Msg(redact(fmt.Sprintf(format, v...)))
}
