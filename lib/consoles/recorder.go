package consoles

import (
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
)

type Level string

const (
	DebugLevel Level = "DEBUG"
	InfoLevel  Level = "INFO"
	WarnLevel  Level = "WARN"
	ErrorLevel Level = "ERROR"
)

type Entry struct {
	Level   Level
	Message string
}

// Recorder keeps everything written to it in memory.
type Recorder struct {
	mutex   *sync.Mutex
	entries *[]Entry
	prefix  string
}

func NewRecorder() *Recorder {
	return &Recorder{
		mutex:   &sync.Mutex{},
		entries: &[]Entry{},
	}
}

func (r *Recorder) Debugf(format string, a ...any) {
	r.add(DebugLevel, format, a...)
}

func (r *Recorder) Printf(format string, a ...any) {
	r.add(InfoLevel, format, a...)
}

func (r *Recorder) Warnf(format string, a ...any) {
	r.add(WarnLevel, format, a...)
}

func (r *Recorder) Errorf(format string, a ...any) {
	r.add(ErrorLevel, format, a...)
}

func (r *Recorder) WithPrefix(format string, a ...any) Console {
	return &Recorder{
		mutex:   r.mutex,
		entries: r.entries,
		prefix:  r.prefix + fmt.Sprintf(format, a...),
	}
}

func (r *Recorder) Entries() []Entry {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return append([]Entry(nil), *r.entries...)
}

func (r *Recorder) Messages(level Level) []string {
	return lo.FilterMap(r.Entries(), func(e Entry, _ int) (string, bool) {
		return e.Message, e.Level == level
	})
}

func (r *Recorder) add(level Level, format string, a ...any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	msg := r.prefix + strings.TrimRight(fmt.Sprintf(format, a...), "\n")
	*r.entries = append(*r.entries, Entry{Level: level, Message: msg})
}
