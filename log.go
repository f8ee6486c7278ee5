package minic

import (
	"io"
	"log"
	"os"

	"github.com/hashicorp/logutils"
)

// LogLevel names the trace levels the original gated behind
// compile-time DEBUG_* macros (VAR_SCOPE_DEBUG, DEBUG_LEXER,
// DEBUG_HEAP); here they are ordinary leveled log lines filtered by
// logutils at runtime.
type LogLevel string

const (
	LogDebug LogLevel = "DEBUG"
	LogInfo  LogLevel = "INFO"
	LogWarn  LogLevel = "WARN"
)

// Logger wraps the standard library logger with a logutils level
// filter, selected from Config so a host can enable scope and lexer
// tracing without rebuilding the interpreter. No heap trace lines are
// emitted; debug.heap only lowers the level floor.
type Logger struct {
	std *log.Logger
}

// NewLogger builds a Logger writing to w, filtered to minLevel and
// above.
func NewLogger(w io.Writer, minLevel LogLevel) *Logger {
	if w == nil {
		w = os.Stderr
	}
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{logutils.LogLevel(LogDebug), logutils.LogLevel(LogInfo), logutils.LogLevel(LogWarn)},
		MinLevel: logutils.LogLevel(minLevel),
		Writer:   w,
	}
	return &Logger{std: log.New(filter, "", log.LstdFlags)}
}

// loggerFromConfig derives a Logger's minimum level from the
// debug.* toggles: any debug toggle set drops the floor to DEBUG,
// otherwise INFO.
func loggerFromConfig(cfg *Config) *Logger {
	level := LogInfo
	if cfg.GetBool("debug.scope") || cfg.GetBool("debug.lexer") || cfg.GetBool("debug.heap") {
		level = LogDebug
	}
	return NewLogger(os.Stderr, level)
}

func (l *Logger) Debugf(format string, args ...any) { l.std.Printf("[DEBUG] "+format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.std.Printf("[INFO] "+format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.std.Printf("[WARN] "+format, args...) }
