package realtime

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

// ChangeChannel is the Postgres NOTIFY channel the table triggers write to.
const ChangeChannel = "table_changes"

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Listener forwards Postgres change notifications into a Hub.
type Listener struct {
	dsn string
	hub *Hub
}

func NewListener(dsn string, hub *Hub) *Listener {
	return &Listener{dsn: dsn, hub: hub}
}

// Run listens until ctx is done. lib/pq reconnects on its own; a nil
// notification marks a reconnect, after which events may have been missed.
func (l *Listener) Run(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("realtime: listener event %d: %v", ev, err)
		}
	}

	listener := pq.NewListener(l.dsn, minReconnectInterval, maxReconnectInterval, reportProblem)
	defer listener.Close()

	if err := listener.Listen(ChangeChannel); err != nil {
		return fmt.Errorf("listen on %s: %w", ChangeChannel, err)
	}
	log.Printf("realtime: listening on %s", ChangeChannel)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			if n == nil {
				log.Println("realtime: listener reconnected, asking subscribers to resync")
				l.Resync()
				continue
			}
			l.HandlePayload(n.Extra)
		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					log.Printf("realtime: listener ping failed: %v", err)
				}
			}()
		}
	}
}

// HandlePayload decodes one notify payload and publishes it.
func (l *Listener) HandlePayload(payload string) {
	ev, err := DecodeEvent([]byte(payload))
	if err != nil {
		log.Printf("realtime: %v", err)
		return
	}
	l.hub.Publish(ev)
}

// Resync publishes a row-less UPDATE for every table so subscribers refetch
// whatever changed while notifications were not arriving.
func (l *Listener) Resync() {
	for _, table := range Tables {
		l.hub.Publish(Resync(table))
	}
}
