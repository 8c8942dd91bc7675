package logger

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger. format is "json" or "text";
// an unknown level falls back to info and is reported once.
func Setup(level, format string) {
	log.SetOutput(os.Stdout)

	switch strings.ToLower(format) {
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		log.SetFormatter(&log.JSONFormatter{})
	}

	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		log.WithField("level", level).Warn("unknown log level, using info")
		return
	}
	log.SetLevel(parsed)
}
