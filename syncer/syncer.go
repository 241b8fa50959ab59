// Package syncer keeps a local copy of every praise night in step with the
// store. It loads the full tree once, then refetches it whenever any watched
// table reports a change.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/PraiseNight/models"
	"github.com/PraiseNight/realtime"
	"gopkg.in/cenkalti/backoff.v1"
)

// Fetcher loads every page with songs, comments and history assembled.
type Fetcher interface {
	GetAllPages(ctx context.Context) ([]models.PraiseNight, error)
}

// Tables are the channels a Syncer watches.
var Tables = []string{realtime.TablePages, realtime.TableSongs, realtime.TableComments, realtime.TableHistory}

var ErrStarted = errors.New("syncer already started")

// Reopen backoff for a channel that closed while the Syncer was running.
var (
	reopenInterval    = time.Second
	maxReopenInterval = 30 * time.Second
)

type Syncer struct {
	source   realtime.Source
	fetcher  Fetcher
	notifier Notifier

	mu       sync.RWMutex
	pages    []models.PraiseNight
	states   map[string]State
	queued   []realtime.Event
	onChange func([]models.PraiseNight)
	starting bool
	started  bool

	trigger chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New builds a Syncer. notifier may be nil.
func New(source realtime.Source, fetcher Fetcher, notifier Notifier) *Syncer {
	states := make(map[string]State, len(Tables))
	for _, table := range Tables {
		states[table] = StateUnsubscribed
	}
	return &Syncer{
		source:   source,
		fetcher:  fetcher,
		notifier: notifier,
		pages:    []models.PraiseNight{},
		states:   states,
		trigger:  make(chan struct{}, 1),
	}
}

// OnChange registers fn to receive a copy of the pages after every
// successful load.
func (s *Syncer) OnChange(fn func([]models.PraiseNight)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Start loads the pages and then opens one channel per watched table. A
// failed initial load is returned without opening channels; call Refresh
// to retry it and Start again.
func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started || s.starting {
		s.mu.Unlock()
		return ErrStarted
	}
	s.starting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.starting = false
		s.mu.Unlock()
	}()

	if err := s.Refresh(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	channels := make(map[string]realtime.Channel, len(Tables))
	for _, table := range Tables {
		s.setState(table, StateSubscribing)
		ch, err := s.source.Open(runCtx, table)
		if err != nil {
			cancel()
			for opened, c := range channels {
				c.Close()
				s.setState(opened, StateUnsubscribed)
			}
			s.setState(table, StateUnsubscribed)
			return fmt.Errorf("subscribe to %s: %w", table, err)
		}
		channels[table] = ch
		s.setState(table, StateSubscribed)
	}

	s.mu.Lock()
	s.started = true
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.refetchLoop(runCtx)
	for table, ch := range channels {
		s.wg.Add(1)
		go s.consume(runCtx, table, ch)
	}
	return nil
}

// Stop closes every channel and waits for in-flight work to finish.
func (s *Syncer) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.started = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	s.mu.Lock()
	for table := range s.states {
		s.states[table] = StateUnsubscribed
	}
	s.queued = nil
	s.mu.Unlock()
}

// Refresh refetches the full tree and replaces the local copy. On error
// the previous copy stays in place.
func (s *Syncer) Refresh(ctx context.Context) error {
	pages, err := s.fetcher.GetAllPages(ctx)
	if err != nil {
		return fmt.Errorf("load praise nights: %w", err)
	}

	s.mu.Lock()
	s.pages = clonePages(pages)
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(s.Pages())
	}
	return nil
}

// Pages returns a copy of the current pages.
func (s *Syncer) Pages() []models.PraiseNight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePages(s.pages)
}

// State returns the state of a watched table's channel.
func (s *Syncer) State(table string) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[table]
}

func (s *Syncer) setState(table string, state State) {
	s.mu.Lock()
	s.states[table] = state
	s.mu.Unlock()
}

// consume forwards the events of one table channel. A channel that closes
// while the Syncer runs is reopened, and one refetch covers the gap.
func (s *Syncer) consume(ctx context.Context, table string, ch realtime.Channel) {
	defer s.wg.Done()

	for {
		dropped := s.drain(ctx, table, ch)
		ch.Close()
		if !dropped {
			return
		}

		log.Printf("syncer: %s channel closed, reopening", table)
		s.setState(table, StateSubscribing)
		next, err := s.reopen(ctx, table)
		if err != nil {
			return
		}
		ch = next
		s.setState(table, StateSubscribed)
		s.enqueue(table, realtime.Resync(table))
	}
}

// drain reports whether ch closed while ctx was still live.
func (s *Syncer) drain(ctx context.Context, table string, ch realtime.Channel) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-ch.Events():
			if !ok {
				return ctx.Err() == nil
			}
			s.enqueue(table, ev)
		}
	}
}

// reopen opens table again, backing off between failures until ctx is done.
func (s *Syncer) reopen(ctx context.Context, table string) (realtime.Channel, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = reopenInterval
	policy.MaxInterval = maxReopenInterval
	policy.MaxElapsedTime = 0

	var ch realtime.Channel
	open := func() error {
		opened, err := s.source.Open(ctx, table)
		if err != nil {
			return err
		}
		ch = opened
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Printf("syncer: reopen %s failed, retrying in %s: %v", table, wait, err)
	}

	if err := backoff.RetryNotify(open, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		ch.Close()
		return nil, err
	}
	return ch, nil
}

// enqueue records ev and wakes the refetch loop. Events that arrive while
// a refetch runs share the one follow-up refetch.
func (s *Syncer) enqueue(table string, ev realtime.Event) {
	s.mu.Lock()
	s.queued = append(s.queued, ev)
	s.states[table] = StateRefetching
	s.mu.Unlock()

	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *Syncer) refetchLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
		}

		s.mu.Lock()
		batch := s.queued
		s.queued = nil
		s.mu.Unlock()
		if len(batch) == 0 {
			continue
		}

		err := s.Refresh(ctx)
		if ctx.Err() != nil {
			return
		}

		if err != nil {
			log.Printf("syncer: refetch after %d change(s) failed: %v", len(batch), err)
			s.notify(Notification{Level: LevelError, Message: fmt.Sprintf("Failed to refresh data: %v", err)})
		} else {
			for _, ev := range batch {
				if ev.IsResync() {
					continue
				}
				s.notify(Notification{Level: LevelFor(ev.Kind), Message: realtime.Describe(ev)})
			}
		}

		s.mu.Lock()
		for _, ev := range batch {
			if s.states[ev.Table] == StateRefetching {
				s.states[ev.Table] = StateSubscribed
			}
		}
		// tables with events still queued stay refetching
		for _, ev := range s.queued {
			s.states[ev.Table] = StateRefetching
		}
		s.mu.Unlock()
	}
}

func (s *Syncer) notify(n Notification) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}

func clonePages(pages []models.PraiseNight) []models.PraiseNight {
	out := make([]models.PraiseNight, len(pages))
	for i, page := range pages {
		out[i] = page
		if page.Banner_Image != nil {
			banner := *page.Banner_Image
			out[i].Banner_Image = &banner
		}
		out[i].Songs = make([]models.PraiseNightSong, len(page.Songs))
		for j, song := range page.Songs {
			out[i].Songs[j] = cloneSong(song)
		}
	}
	return out
}

func cloneSong(song models.PraiseNightSong) models.PraiseNightSong {
	out := song
	if song.Media_ID != nil {
		id := *song.Media_ID
		out.Media_ID = &id
	}
	out.Comments = append(make([]models.Comment, 0, len(song.Comments)), song.Comments...)
	out.History = append(make([]models.HistoryEntry, 0, len(song.History)), song.History...)
	return out
}
