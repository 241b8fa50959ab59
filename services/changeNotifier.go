package services

import (
	"context"
	"log"

	"github.com/PraiseNight/realtime"
)

// ChangeNotifier turns table change events into topic pushes for admins
// who are not looking at the app.
type ChangeNotifier struct {
	push *PushNotificationService
}

func NewChangeNotifier(push *PushNotificationService) *ChangeNotifier {
	return &ChangeNotifier{push: push}
}

// Start consumes hub events until ctx is done. History rows always
// accompany a song or comment change, so they are not pushed on their own.
func (n *ChangeNotifier) Start(ctx context.Context, hub *realtime.Hub) {
	sub := hub.Subscribe(
		realtime.TablePages,
		realtime.TableSongs,
		realtime.TableComments,
		realtime.TableCategories,
		realtime.TableMedia,
	)

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	go func() {
		for ev := range sub.Events() {
			n.Handle(ev)
		}
	}()
}

// Handle logs one change and pushes it when a push service is configured.
func (n *ChangeNotifier) Handle(ev realtime.Event) {
	message := realtime.Describe(ev)
	log.Printf("Change on %s: %s", ev.Table, message)

	if n.push == nil {
		return
	}

	payload := ChangePayload(ev)
	if err := n.push.SendToTopic(payload); err != nil {
		log.Printf("Failed to push change notification: %v", err)
	}
}

// ChangePayload builds the push for one change event.
func ChangePayload(ev realtime.Event) NotificationPayload {
	return NotificationPayload{
		Title: "Praise night updated",
		Body:  realtime.Describe(ev),
		Data: map[string]string{
			"table": ev.Table,
			"type":  ev.Kind,
		},
	}
}
