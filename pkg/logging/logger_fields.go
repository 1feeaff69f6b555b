package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Network field helpers

func Node(name string) Field {
	return String("node", name)
}

func Attr(name string) Field {
	return String("attr", name)
}

// Component names a parameter, recorder, table or scenario
func Component(name string) Field {
	return String("component", name)
}

// Kind is the component kind: parameter, recorder, ...
func Kind(kind string) Field {
	return String("kind", kind)
}

// Category is a parser error category such as "nodes" or "edges"
func Category(category string) Field {
	return String("category", category)
}

func LoadID(id string) Field {
	return String("load_id", id)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
