package log

import (
	"fmt"
	"io"
	"time"
)

// SetOutput overrides the output writer for a sublogger, primarily to
// silence or capture subsystems under test
func SetOutput(sl *SubLogger, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sl.output = w
}

// SetAllLevels applies the same level set to every registered sublogger
func SetAllLevels(levels Levels) {
	mu.Lock()
	defer mu.Unlock()
	for _, sl := range subLoggers {
		sl.Levels = levels
	}
}

// SetLevels replaces the enabled levels for a sublogger with a pipe
// delimited set such as "INFO|WARN|ERROR"
func SetLevels(sl *SubLogger, levels string) {
	mu.Lock()
	defer mu.Unlock()
	sl.Levels = splitLevel(levels)
}

func (sl *SubLogger) stage(header, data string) {
	if sl == nil || sl.output == nil {
		return
	}
	fmt.Fprintf(sl.output, "%s%s%s%s%s%s\n",
		time.Now().Format(logger.TimestampFormat),
		header,
		logger.Spacer,
		sl.name,
		logger.Spacer,
		data)
}

// Info takes a pointer sublogger struct and writes the data at info level
func Info(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.Levels.Info {
		return
	}
	sl.stage(logger.InfoHeader, data)
}

// Infoln takes a pointer sublogger struct and joins the values at info level
func Infoln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.Levels.Info {
		return
	}
	sl.stage(logger.InfoHeader, fmt.Sprint(v...))
}

// Infof takes a pointer sublogger struct and formats the data at info level
func Infof(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.Levels.Info {
		return
	}
	sl.stage(logger.InfoHeader, fmt.Sprintf(data, v...))
}

// Debug takes a pointer sublogger struct and writes the data at debug level
func Debug(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.Levels.Debug {
		return
	}
	sl.stage(logger.DebugHeader, data)
}

// Debugf takes a pointer sublogger struct and formats the data at debug level
func Debugf(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.Levels.Debug {
		return
	}
	sl.stage(logger.DebugHeader, fmt.Sprintf(data, v...))
}

// Warn takes a pointer sublogger struct and writes the data at warn level
func Warn(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.Levels.Warn {
		return
	}
	sl.stage(logger.WarnHeader, data)
}

// Warnf takes a pointer sublogger struct and formats the data at warn level
func Warnf(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.Levels.Warn {
		return
	}
	sl.stage(logger.WarnHeader, fmt.Sprintf(data, v...))
}

// Error takes a pointer sublogger struct and writes the data at error level
func Error(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.Levels.Error {
		return
	}
	sl.stage(logger.ErrorHeader, data)
}

// Errorf takes a pointer sublogger struct and formats the data at error level
func Errorf(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.Levels.Error {
		return
	}
	sl.stage(logger.ErrorHeader, fmt.Sprintf(data, v...))
}
