package applog

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultCapacity is the number of log entries retained for display in the dashboard
const DefaultCapacity = 100

// Entry is a single log line as exposed to the dashboard's log panel
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Buffer is a fixed-size ring buffer holding the N most recent log entries. It
// implements zerolog.LevelWriter so that it can be teed alongside stdout, and it
// publishes each new entry to an updates channel for live tailing.
type Buffer struct {
	mu        sync.Mutex
	entries   []Entry
	capacity  int
	size      int
	headIndex int

	updates chan Entry
	now     func() time.Time
}

var _ zerolog.LevelWriter = (*Buffer)(nil)

// NewBuffer initializes an empty Buffer that will retain up to the given number of
// entries, ejecting the oldest entry once full
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		entries:  make([]Entry, capacity),
		capacity: capacity,
		updates:  make(chan Entry, 64),
		now:      time.Now,
	}
}

// Add records a new entry with the given level and message
func (b *Buffer) Add(level string, message string) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Timestamp: b.now(),
		Level:     level,
		Message:   message,
	}

	b.mu.Lock()
	b.entries[b.headIndex] = entry
	b.headIndex = (b.headIndex + 1) % b.capacity
	b.size = min(b.size+1, b.capacity)
	b.mu.Unlock()

	// Live subscribers are best-effort: if nobody is draining the channel, drop
	select {
	case b.updates <- entry:
	default:
	}
	return entry
}

// Recent returns all retained entries, newest first
func (b *Buffer) Recent() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	results := make([]Entry, 0, b.size)
	for i := 1; i <= b.size; i++ {
		index := (b.headIndex - i + b.capacity) % b.capacity
		results = append(results, b.entries[index])
	}
	return results
}

// Updates returns a channel that receives each entry as it's added
func (b *Buffer) Updates() <-chan Entry {
	return b.updates
}

// Write satisfies io.Writer; lines written without a level are recorded as info
func (b *Buffer) Write(p []byte) (int, error) {
	return b.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel accepts a single JSON-encoded zerolog event and records it, skipping
// anything below info level
func (b *Buffer) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level == zerolog.TraceLevel || level == zerolog.DebugLevel || level == zerolog.Disabled {
		return len(p), nil
	}

	var event map[string]interface{}
	message := string(p)
	if err := json.Unmarshal(p, &event); err == nil {
		message, _ = event[zerolog.MessageFieldName].(string)
		if errText, ok := event[zerolog.ErrorFieldName].(string); ok && errText != "" {
			if message == "" {
				message = errText
			} else {
				message += ": " + errText
			}
		}
	}
	b.Add(entryLevel(level), message)
	return len(p), nil
}

func entryLevel(level zerolog.Level) string {
	switch level {
	case zerolog.WarnLevel:
		return "warn"
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return "error"
	}
	return "info"
}
