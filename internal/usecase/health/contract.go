package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SessionCounter reports open scenario sessions.
type SessionCounter interface {
	Count() int
}
