// Package realtime carries per-table change events from Postgres to
// subscribers: an in-process Hub fans out what the LISTEN/NOTIFY Listener
// receives.
package realtime

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Watched tables
const (
	TablePages      = "pages"
	TableSongs      = "songs"
	TableComments   = "comments"
	TableHistory    = "song_history"
	TableCategories = "categories"
	TableMedia      = "media"
)

// Event kinds, as reported by the notify trigger.
const (
	KindInsert = "INSERT"
	KindUpdate = "UPDATE"
	KindDelete = "DELETE"
)

// Tables lists every table that emits change events.
var Tables = []string{TablePages, TableSongs, TableComments, TableHistory, TableCategories, TableMedia}

// Event is one row change. Record holds the new row (absent on delete) and
// OldRecord the previous row (absent on insert).
type Event struct {
	Table     string         `json:"table"`
	Kind      string         `json:"type"`
	Record    map[string]any `json:"record,omitempty"`
	OldRecord map[string]any `json:"old_record,omitempty"`
}

// IsTable reports whether name is a table that emits change events.
func IsTable(name string) bool {
	for _, table := range Tables {
		if table == name {
			return true
		}
	}
	return false
}

// DecodeEvent parses a notify payload.
func DecodeEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("decode change event: %w", err)
	}
	ev.Kind = strings.ToUpper(ev.Kind)
	if ev.Table == "" {
		return Event{}, fmt.Errorf("decode change event: missing table")
	}
	switch ev.Kind {
	case KindInsert, KindUpdate, KindDelete:
	default:
		return Event{}, fmt.Errorf("decode change event: unknown type %q", ev.Kind)
	}
	return ev, nil
}

// Resync returns a row-less UPDATE for table. It is published when changes
// may have been missed, so subscribers refetch instead of patching.
func Resync(table string) Event {
	return Event{Table: table, Kind: KindUpdate}
}

// IsResync reports whether e carries no row, as produced by Resync.
func (e Event) IsResync() bool {
	return e.Kind == KindUpdate && e.Record == nil && e.OldRecord == nil
}

// DisplayName returns the affected entity's name when the payload carries one.
func (e Event) DisplayName() string {
	field := displayField(e.Table)
	if field == "" {
		return ""
	}
	for _, row := range []map[string]any{e.Record, e.OldRecord} {
		if name, ok := row[field].(string); ok && name != "" {
			return name
		}
	}
	return ""
}

func displayField(table string) string {
	switch table {
	case TablePages, TableCategories, TableMedia:
		return "name"
	case TableSongs:
		return "title"
	}
	return ""
}

var entityNouns = map[string]string{
	TablePages:      "Praise night",
	TableSongs:      "Song",
	TableComments:   "Comment",
	TableHistory:    "Song history",
	TableCategories: "Category",
	TableMedia:      "Media file",
}

var kindVerbs = map[string]string{
	KindInsert: "created",
	KindUpdate: "updated",
	KindDelete: "deleted",
}

// Describe renders the user-facing text for an event, e.g. `Song "Grace" created`.
func Describe(e Event) string {
	noun, ok := entityNouns[e.Table]
	if !ok {
		noun = e.Table
	}
	verb, ok := kindVerbs[e.Kind]
	if !ok {
		verb = "changed"
	}
	if name := e.DisplayName(); name != "" {
		return fmt.Sprintf("%s %q %s", noun, name, verb)
	}
	return fmt.Sprintf("%s %s", noun, verb)
}
