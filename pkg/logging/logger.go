package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// New creates a logger writing in the given format
func New(writer io.Writer, level Level, format Format) *StreamLogger {
	return &StreamLogger{
		writer: writer,
		format: format,
		level:  level,
		mu:     &sync.Mutex{},
	}
}

// NewJSONLogger creates a logger writing one JSON object per line
func NewJSONLogger(writer io.Writer, level Level) *StreamLogger {
	return New(writer, level, FormatJSON)
}

// NewTextLogger creates a logger writing key=value lines
func NewTextLogger(writer io.Writer, level Level) *StreamLogger {
	return New(writer, level, FormatText)
}

func (l *StreamLogger) log(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	fieldMap := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range l.fields {
		fieldMap[f.Key] = f.Value
	}
	for _, f := range fields {
		fieldMap[f.Key] = f.Value
	}

	entry := LogEntry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if len(fieldMap) > 0 {
		entry.Fields = fieldMap
	}

	var line []byte
	if l.format == FormatText {
		line = encodeText(entry)
	} else {
		data, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.writer, "[ERROR] Failed to marshal log entry: %v\n", err)
			return
		}
		line = data
	}

	l.writer.Write(append(line, '\n'))
}

// encodeText renders an entry as time=... level=... msg=... k=v with sorted keys
func encodeText(entry LogEntry) []byte {
	var b strings.Builder
	b.WriteString("time=")
	b.WriteString(entry.Time)
	b.WriteString(" level=")
	b.WriteString(entry.Level)
	b.WriteString(" msg=")
	b.WriteString(strconv.Quote(entry.Message))

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		s := fmt.Sprint(entry.Fields[k])
		if s == "" || strings.ContainsAny(s, " \t\"=") {
			s = strconv.Quote(s)
		}
		b.WriteString(s)
	}
	return []byte(b.String())
}

func (l *StreamLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

func (l *StreamLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

func (l *StreamLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

func (l *StreamLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger with the given fields pre-set
func (l *StreamLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &StreamLogger{
		writer: l.writer,
		format: l.format,
		level:  l.level,
		fields: newFields,
		mu:     l.mu,
	}
}

// SetLevel sets the minimum log level
func (l *StreamLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *StreamLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the operation started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation with its duration
func (t *TimedOperation) End(fields ...Field) {
	all := append(slices.Clone(t.fields), fields...)
	t.logger.Info(t.msg, append(all, Latency(t.Elapsed()))...)
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error) {
	t.logger.Error(t.msg, append(slices.Clone(t.fields), Latency(t.Elapsed()), Error(err))...)
}
