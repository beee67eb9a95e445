package log

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/logdna/logdna-go/logger"
	"github.com/rnr-capital/fritter-backend/utils/flag"
	"github.com/sirupsen/logrus"
)

const (
	logdnaKeyEnv = "LOGDNA_INGESTION_KEY"
	logLevelEnv  = "LOG_LEVEL"
	envNameEnv   = "FRITTER_ENV"
)

// global accessible logger
var (
	LogV2 *logrus.Logger
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	LogV2 = newLogger()
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(levelFromEnv())

	key := os.Getenv(logdnaKeyEnv)
	if len(key) == 0 {
		return l
	}
	hook, err := newLogDNAHook(key)
	if err != nil {
		l.WithError(err).Error("fail to init LogDNA, logging to stdout only")
		return l
	}
	l.AddHook(hook)
	return l
}

func levelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv(logLevelEnv))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// LogDNAHook forwards logrus entries to LogDNA.
type LogDNAHook struct {
	client *logger.Logger
}

func newLogDNAHook(key string) (*LogDNAHook, error) {
	options := logger.Options{
		Level: "debug",
	}
	env := os.Getenv(envNameEnv)
	if len(env) == 0 {
		env = "unknown"
	}
	options.Hostname = "backend-" + env
	options.App = strings.ReplaceAll(*flag.ServiceName, "_", "-")
	client, err := logger.NewLogger(options, key)
	if err != nil {
		return nil, err
	}
	return &LogDNAHook{client: client}, nil
}

func (h *LogDNAHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *LogDNAHook) Fire(entry *logrus.Entry) error {
	msg := formatEntry(entry)
	switch entry.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		h.client.Debug(msg)
	case logrus.InfoLevel:
		h.client.Info(msg)
	default:
		h.client.Error(msg)
	}
	return nil
}

func formatEntry(entry *logrus.Entry) string {
	if len(entry.Data) == 0 {
		return entry.Message
	}
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Data[k]))
	}
	return entry.Message + " " + strings.Join(parts, " ")
}
