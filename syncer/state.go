package syncer

import "github.com/PraiseNight/realtime"

// State is the lifecycle of one table channel.
type State int

const (
	StateUnsubscribed State = iota
	StateSubscribing
	StateSubscribed
	StateRefetching
)

func (s State) String() string {
	switch s {
	case StateSubscribing:
		return "subscribing"
	case StateSubscribed:
		return "subscribed"
	case StateRefetching:
		return "refetching"
	}
	return "unsubscribed"
}

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is shown to the user after a change was applied, or when
// applying it failed.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives notifications. It is called from the refetch goroutine.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LevelFor maps an event kind to its notification level.
func LevelFor(kind string) Level {
	switch kind {
	case realtime.KindInsert:
		return LevelSuccess
	case realtime.KindDelete:
		return LevelWarning
	}
	return LevelInfo
}
