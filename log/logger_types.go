package log

import (
	"io"
	"os"
	"strings"
	"sync"
)

const (
	timestampFormat = " 02/01/2006 15:04:05 "
	spacer          = " | "
)

var (
	logger = Logger{
		TimestampFormat: timestampFormat,
		Spacer:          spacer,
		InfoHeader:      "[INFO]",
		WarnHeader:      "[WARN]",
		DebugHeader:     "[DEBUG]",
		ErrorHeader:     "[ERROR]",
	}

	subLoggers = map[string]*SubLogger{}

	// read/write mutex for logger
	mu = &sync.RWMutex{}

	// Global is the fallback sublogger for anything without a subsystem
	Global *SubLogger
	// Engine covers the tick loop
	Engine *SubLogger
	// Market covers bar data iteration and the simulation clock
	Market *SubLogger
	// Portfolio covers order placement, execution and accounting
	Portfolio *SubLogger
	// Strategy covers signal generation
	Strategy *SubLogger
	// Statistics covers result calculation and reporting
	Statistics *SubLogger
	// Database covers run persistence
	Database *SubLogger
	// APIServer covers the RESTful/websocket surface
	APIServer *SubLogger
)

// Logger holds the shared formatting settings for every sublogger
type Logger struct {
	TimestampFormat                                  string
	InfoHeader, ErrorHeader, DebugHeader, WarnHeader string
	Spacer                                           string
}

// Levels flags for each sub logger type
type Levels struct {
	Info, Debug, Warn, Error bool
}

// SubLogger defines a sub logger for a subsystem
type SubLogger struct {
	name   string
	output io.Writer
	Levels
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch enabledLevels[x] {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func registerSubLogger(name, levels string) *SubLogger {
	sl := &SubLogger{
		name:   strings.ToUpper(name),
		output: os.Stdout,
		Levels: splitLevel(levels),
	}
	subLoggers[sl.name] = sl
	return sl
}

func init() {
	Global = registerSubLogger("BACKSIM", "INFO|WARN|ERROR")
	Engine = registerSubLogger("ENGINE", "INFO|WARN|ERROR")
	Market = registerSubLogger("MARKET", "INFO|WARN|ERROR")
	Portfolio = registerSubLogger("PORTFOLIO", "INFO|WARN|ERROR")
	Strategy = registerSubLogger("STRATEGY", "INFO|WARN|ERROR")
	Statistics = registerSubLogger("STATISTICS", "INFO|WARN|ERROR")
	Database = registerSubLogger("DATABASE", "INFO|WARN|ERROR")
	APIServer = registerSubLogger("APISERVER", "INFO|WARN|ERROR")
}
