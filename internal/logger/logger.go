// Package logger is the leveled key=value logger shared by the ppt2pdf tools.
//
// A Logger writes to an optional log file, rotated by size, and to an optional
// console writer. The command-line tools use the package-level functions,
// which discard everything until Init is called.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Level is the severity of an entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a level name such as "debug" or "warning" to a Level.
// Unknown names yield LevelWarn and ok=false.
func ParseLevel(name string) (level Level, ok bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "WARNING" {
		name = "WARN"
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), true
		}
	}
	return LevelWarn, false
}

// Field is one key=value pair attached to an entry.
type Field struct {
	Key   string
	Value string
}

func String(key, value string) Field { return Field{key, value} }

func Int(key string, value int) Field { return Field{key, strconv.Itoa(value)} }

func Int64(key string, value int64) Field { return Field{key, strconv.FormatInt(value, 10)} }

func Float64(key string, value float64) Field {
	return Field{key, strconv.FormatFloat(value, 'g', -1, 64)}
}

func Bool(key string, value bool) Field { return Field{key, strconv.FormatBool(value)} }

// Err records err under the "error" key; a nil error is written as <nil>.
func Err(err error) Field {
	if err == nil {
		return Field{"error", "<nil>"}
	}
	return Field{"error", err.Error()}
}

// Config configures a Logger.
type Config struct {
	// Path is the log file. Empty disables file output.
	Path string
	// MaxSize is the file size in bytes that triggers rotation; 0 never rotates.
	MaxSize int64
	// Backups is how many rotated files (path.1 ... path.N) are kept.
	Backups int
	// Level is the lowest level written.
	Level Level
	// Console, when set, receives every entry as well.
	Console io.Writer
}

const (
	defaultMaxSize = 10 << 20
	defaultBackups = 5
	timeLayout     = "2006-01-02 15:04:05.000"
	maxStackFrames = 12
)

// Logger writes entries to its file and console. A nil *Logger discards
// everything.
type Logger struct {
	mu      sync.Mutex
	cfg     Config
	file    *os.File
	size    int64
	console io.Writer
}

// New creates a Logger, creating the log file's directory when needed.
func New(cfg Config) (*Logger, error) {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = defaultMaxSize
	}
	if cfg.Backups == 0 {
		cfg.Backups = defaultBackups
	}
	l := &Logger{cfg: cfg, console: cfg.Console}
	if cfg.Path == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Logger) open() error {
	f, err := os.OpenFile(l.cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	l.file, l.size = f, info.Size()
	return nil
}

func (l *Logger) Debug(msg string, fields ...Field) { l.write(LevelDebug, msg, nil, fields) }

func (l *Logger) Info(msg string, fields ...Field) { l.write(LevelInfo, msg, nil, fields) }

func (l *Logger) Warn(msg string, fields ...Field) { l.write(LevelWarn, msg, nil, fields) }

// Error logs msg with err. The file copy of the entry carries a stack trace.
func (l *Logger) Error(msg string, err error, fields ...Field) {
	l.write(LevelError, msg, err, fields)
}

// Close closes the log file. Console output keeps working afterwards.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) write(level Level, msg string, err error, fields []Field) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.cfg.Level || (l.file == nil && l.console == nil) {
		return
	}

	line := format(time.Now(), level, msg, err, fields)
	if l.console != nil {
		io.WriteString(l.console, line)
	}
	if l.file == nil {
		return
	}
	if level == LevelError {
		line += stackTrace()
	}
	if l.cfg.MaxSize > 0 && l.size+int64(len(line)) > l.cfg.MaxSize {
		if err := l.rotate(); err != nil {
			return
		}
	}
	n, _ := io.WriteString(l.file, line)
	l.size += int64(n)
}

// format renders one entry as
// "2006-01-02 15:04:05.000 [LEVEL] msg error="..." key=value ...".
func format(now time.Time, level Level, msg string, err error, fields []Field) string {
	var sb strings.Builder
	sb.WriteString(now.Format(timeLayout))
	fmt.Fprintf(&sb, " [%s] %s", level, msg)
	if err != nil {
		fmt.Fprintf(&sb, " error=%q", err.Error())
	}
	for _, f := range fields {
		sb.WriteByte(' ')
		sb.WriteString(f.Key)
		sb.WriteByte('=')
		sb.WriteString(f.Value)
	}
	sb.WriteByte('\n')
	return sb.String()
}

// stackTrace lists the caller's frames, leaving out runtime, testing and
// this package.
func stackTrace() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	sb.WriteString("Stack trace:\n")
	written := 0
	for {
		fr, more := frames.Next()
		if !strings.HasPrefix(fr.Function, "runtime.") &&
			!strings.HasPrefix(fr.Function, "testing.") &&
			!strings.Contains(fr.Function, "/internal/logger.") {
			if written == maxStackFrames {
				sb.WriteString("  ... (truncated)\n")
				break
			}
			fmt.Fprintf(&sb, "  %s:%d %s\n", fr.File, fr.Line, fr.Function)
			written++
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// rotate shifts path.N-1 to path.N down to path to path.1, dropping the
// oldest, and reopens an empty file.
func (l *Logger) rotate() error {
	l.file.Close()
	l.file = nil
	path := l.cfg.Path
	os.Remove(fmt.Sprintf("%s.%d", path, l.cfg.Backups))
	for i := l.cfg.Backups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
	}
	os.Rename(path, path+".1")
	return l.open()
}

var (
	stdMu sync.RWMutex
	std   *Logger
)

// Init replaces the package-level logger, closing the previous one.
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	stdMu.Lock()
	prev := std
	std = l
	stdMu.Unlock()
	return prev.Close()
}

// Close closes the package-level logger and reverts to discarding entries.
func Close() error {
	stdMu.Lock()
	prev := std
	std = nil
	stdMu.Unlock()
	return prev.Close()
}

func current() *Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

func Debug(msg string, fields ...Field) { current().Debug(msg, fields...) }

func Info(msg string, fields ...Field) { current().Info(msg, fields...) }

func Warn(msg string, fields ...Field) { current().Warn(msg, fields...) }

func Error(msg string, err error, fields ...Field) { current().Error(msg, err, fields...) }
