package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/PraiseNight/realtime"
	"github.com/r3labs/sse/v2"
	"gopkg.in/cenkalti/backoff.v1"
)

// ChangeEvent is the SSE event name carrying a change.
const ChangeEvent = "change"

// Backoff between reconnects of a stream that dropped after connecting.
var (
	streamRetryInterval    = time.Second
	maxStreamRetryInterval = 30 * time.Second
)

type streamChannel struct {
	events chan realtime.Event
	cancel context.CancelFunc
	once   sync.Once
}

func (s *streamChannel) Events() <-chan realtime.Event {
	return s.events
}

func (s *streamChannel) Close() {
	s.once.Do(s.cancel)
}

// reconnectPolicy fails the first connect immediately and backs off
// exponentially once the stream has been up.
type reconnectPolicy struct {
	exp       *backoff.ExponentialBackOff
	connected bool
}

func newReconnectPolicy() *reconnectPolicy {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = streamRetryInterval
	exp.MaxInterval = maxStreamRetryInterval
	exp.MaxElapsedTime = 0
	return &reconnectPolicy{exp: exp}
}

func (p *reconnectPolicy) NextBackOff() time.Duration {
	if !p.connected {
		return backoff.Stop
	}
	return p.exp.NextBackOff()
}

func (p *reconnectPolicy) Reset() { p.exp.Reset() }

// Open implements realtime.Source over the API's server-sent event stream.
// A dropped stream is reconnected with backoff and followed by a resync
// event. The channel closes when ctx is done, Close is called, the server
// ends the stream or rejects a reconnect.
func (c *Client) Open(ctx context.Context, table string) (realtime.Channel, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	ch := &streamChannel{events: make(chan realtime.Event, 16), cancel: cancel}

	send := func(ev realtime.Event) {
		select {
		case ch.events <- ev:
		case <-streamCtx.Done():
		}
	}

	policy := newReconnectPolicy()
	connected := make(chan struct{})
	var connectOnce sync.Once

	stream := sse.NewClient(c.baseURL+"/realtime/"+table, func(s *sse.Client) {
		s.Connection = c.streamClient
	})
	stream.Headers["Authorization"] = "Bearer " + c.accessKey
	stream.ReconnectStrategy = backoff.WithContext(policy, streamCtx)
	stream.ReconnectNotify = func(err error, wait time.Duration) {
		log.Printf("apiclient: %s stream dropped, reconnecting in %s: %v", table, wait, err)
	}
	stream.ResponseValidator = func(_ *sse.Client, resp *http.Response) error {
		if resp.StatusCode != http.StatusOK {
			defer resp.Body.Close()
			err := decodeError(resp)
			if resp.StatusCode < http.StatusInternalServerError {
				return backoff.Permanent(err)
			}
			return err
		}
		if policy.connected {
			send(realtime.Resync(table))
		}
		policy.connected = true
		policy.Reset()
		connectOnce.Do(func() { close(connected) })
		return nil
	}

	done := make(chan error, 1)
	go func() {
		defer close(ch.events)
		done <- stream.SubscribeWithContext(streamCtx, "", func(msg *sse.Event) {
			if string(msg.Event) != ChangeEvent || len(msg.Data) == 0 {
				return
			}
			ev, err := realtime.DecodeEvent(msg.Data)
			if err != nil {
				log.Printf("apiclient: %v", err)
				return
			}
			send(ev)
		})
	}()

	select {
	case <-connected:
		return ch, nil
	case err := <-done:
		select {
		case <-connected:
			// connected and already ended; the closed channel reports it
			return ch, nil
		default:
		}
		cancel()
		if err == nil {
			err = errors.New("stream closed before connecting")
		}
		return nil, fmt.Errorf("open %s stream: %w", table, err)
	}
}
