// corelog.go - a thin wrapper over the standard logger. The retrieved
// corpus never reaches for a structured logger (zerolog/zap/logrus
// appear nowhere across it); it logs with fmt.Printf and log.Printf
// straight at call sites (audio_chip.go, main.go). This package keeps
// that plain, unadorned style but gives every subsystem a tagged
// prefix instead of hand-formatting one at each call site.

package corelog

import (
	"log"
	"os"
)

// Logger tags every line with a subsystem name, e.g. "ppu", "mbc",
// "device".
type Logger struct {
	tag string
	std *log.Logger
}

func New(tag string) *Logger {
	return &Logger{
		tag: tag,
		std: log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *Logger) Printf(format string, args ...any) {
	l.std.Printf("[%s] "+format, append([]any{l.tag}, args...)...)
}

// Warnf logs a recoverable condition: a dropped write, an ignored
// register bit, a clamp.
func (l *Logger) Warnf(format string, args ...any) {
	l.std.Printf("[%s] WARN "+format, append([]any{l.tag}, args...)...)
}

// Faultf logs a fatal condition immediately before the caller panics
// or returns a CoreError up the stack.
func (l *Logger) Faultf(format string, args ...any) {
	l.std.Printf("[%s] FAULT "+format, append([]any{l.tag}, args...)...)
}
