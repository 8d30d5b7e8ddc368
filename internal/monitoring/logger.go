package monitoring

import (
	"fmt"
	"log"
	"sync"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Category names a group of component log messages the host can switch on
// and off independently.
type Category string

const (
	CategoryFMI  Category = "FMI"
	CategoryOSMP Category = "OSMP"
	CategoryOSI  Category = "OSI"
)

// AllCategories lists every category a component logs under.
var AllCategories = []Category{CategoryFMI, CategoryOSMP, CategoryOSI}

// Level distinguishes routine trace output from warnings.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
)

// Sink receives formatted component log records.
type Sink func(level Level, category Category, msg string)

// Logger is a per-instance logger with its own category filter. The zero
// value is not usable; call NewLogger.
type Logger struct {
	mu         sync.Mutex
	enabled    bool
	categories map[Category]bool
	sink       Sink
}

// NewLogger returns a Logger with every category selected. enabled controls
// whether Logf output is emitted at all.
func NewLogger(enabled bool) *Logger {
	l := &Logger{enabled: enabled}
	l.selectAll()
	return l
}

func (l *Logger) selectAll() {
	l.categories = make(map[Category]bool, len(AllCategories))
	for _, c := range AllCategories {
		l.categories[c] = true
	}
}

// SetSink routes records to fn. A nil fn restores the package Logf.
func (l *Logger) SetSink(fn Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = fn
}

// Configure switches logging on or off and selects categories. An empty
// list selects every category; unknown names are ignored.
func (l *Logger) Configure(enabled bool, categories []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
	if len(categories) == 0 {
		l.selectAll()
		return
	}
	l.categories = make(map[Category]bool)
	for _, name := range categories {
		for _, c := range AllCategories {
			if string(c) == name {
				l.categories[c] = true
			}
		}
	}
}

// Enabled reports whether Logf emits records for c.
func (l *Logger) Enabled(c Category) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled && l.categories[c]
}

// Logf emits a trace record when logging is on and c is selected.
func (l *Logger) Logf(c Category, format string, v ...interface{}) {
	if !l.Enabled(c) {
		return
	}
	l.emit(LevelInfo, c, fmt.Sprintf(format, v...))
}

// Warnf emits a warning regardless of the category filter.
func (l *Logger) Warnf(c Category, format string, v ...interface{}) {
	l.emit(LevelWarning, c, fmt.Sprintf(format, v...))
}

func (l *Logger) emit(level Level, c Category, msg string) {
	l.mu.Lock()
	sink := l.sink
	l.mu.Unlock()
	if sink != nil {
		sink(level, c, msg)
		return
	}
	if level == LevelWarning {
		Logf("[%s] warning: %s", c, msg)
		return
	}
	Logf("[%s] %s", c, msg)
}
