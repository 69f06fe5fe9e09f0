package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/react-agent/domain/agent"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for loop logging.

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Question adds the question text.
func Question(q string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("question", q)
	}
}

// State adds a state field.
func State(s agent.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("state", string(s))
	}
}

// FromState adds a from_state field for transitions.
func FromState(s agent.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_state", string(s))
	}
}

// ToState adds a to_state field for transitions.
func ToState(s agent.State) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_state", string(s))
	}
}

// Event adds the machine event that caused a transition.
func Event(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("event", name)
	}
}

// Action adds the parsed action type.
func Action(a agent.ActionType) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", string(a))
	}
}

// Query adds a search query field.
func Query(q string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("query", q)
	}
}

// Iteration adds the current iteration number.
func Iteration(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("iteration", n)
	}
}

// Provider adds the model or search provider name.
func Provider(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("provider", name)
	}
}

// Results adds a result count.
func Results(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("results", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// Cached adds a cached field.
func Cached(cached bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("cached", cached)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// ErrorKind adds the failure kind.
func ErrorKind(k agent.ErrorKind) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("error_kind", string(k))
	}
}

// Budget adds budget-related fields.
func Budget(name string, remaining int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("budget", name).Int("remaining", remaining)
	}
}

// Reason adds a reason field.
func Reason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reason", reason)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Attempt adds a retry attempt number.
func Attempt(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("attempt", n)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
