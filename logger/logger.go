// Package logger defines the event sink every long running operation
// reports through. Sinks are passed in explicitly.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type (
	Level int
	Event struct {
		Time    time.Time
		Level   Level
		Message string
		Err     error
	}
	Sink interface {
		Log(event Event)
	}
	SinkFunc func(event Event)

	// WriterSink prints one line per event. Debug events are dropped unless
	// Verbose is set.
	WriterSink struct {
		logger  *log.Logger
		Verbose bool
	}
	// FileSink appends exception events with their full detail to a file.
	FileSink struct {
		mu   sync.Mutex
		path string
	}
	Recorder struct {
		mu     sync.Mutex
		events []Event
	}
	multiSink   []Sink
	discardSink struct{}
)

const (
	Generic = Level(iota)
	Debug
	Exception
)

// Discard drops every event.
var Discard Sink = discardSink{}

func (r Level) String() string {
	switch r {
	case Generic:
		return "INFO"
	case Debug:
		return "DEBUG"
	case Exception:
		return "ERROR"
	default:
		return fmt.Sprintf("Level(%d)", int(r))
	}
}

func (r SinkFunc) Log(event Event) {
	r(event)
}

func (discardSink) Log(Event) {}

func New(w io.Writer) *WriterSink {
	return &WriterSink{logger: log.New(w, "", log.LstdFlags)}
}

func (r *WriterSink) Log(event Event) {
	if event.Level == Debug && !r.Verbose {
		return
	}
	line := event.Level.String() + " " + event.Message
	if event.Err != nil {
		line += ": " + event.Err.Error()
	}
	r.logger.Println(line)
}

func NewFile(path string) *FileSink {
	return &FileSink{path: path}
}

func (r *FileSink) Path() string {
	return r.path
}

func (r *FileSink) Log(event Event) {
	if event.Level != Exception {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = io.WriteString(file, formatException(event))
}

func formatException(event Event) string {
	detail := "No error was passed."
	if event.Err != nil {
		detail = fmt.Sprintf("%+v", event.Err)
	}
	sb := strings.Builder{}
	sb.WriteString("Time: " + event.Time.Format(time.RFC3339) + "\n")
	sb.WriteString("Log message: " + event.Message + "\n")
	sb.WriteString("Error:\n")
	sb.WriteString(detail + "\n\n")
	return sb.String()
}

// Multi fans every event out to all sinks in order.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (r multiSink) Log(event Event) {
	for _, sink := range r {
		sink.Log(event)
	}
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]Event, len(r.events))
	copy(events, r.events)
	return events
}

// Messages lists the messages of recorded events of the given level.
func (r *Recorder) Messages(level Level) []string {
	messages := []string{}
	for _, event := range r.Events() {
		if event.Level == level {
			messages = append(messages, event.Message)
		}
	}
	return messages
}

func Info(sink Sink, format string, args ...any) {
	sink.Log(Event{Time: time.Now(), Level: Generic, Message: fmt.Sprintf(format, args...)})
}

func Debugf(sink Sink, format string, args ...any) {
	sink.Log(Event{Time: time.Now(), Level: Debug, Message: fmt.Sprintf(format, args...)})
}

// Error logs an exception event. A nil err is replaced so the file log
// always carries a cause.
func Error(sink Sink, err error, format string, args ...any) {
	if err == nil {
		err = errors.New("no error was passed")
	}
	sink.Log(Event{Time: time.Now(), Level: Exception, Message: fmt.Sprintf(format, args...), Err: err})
}
