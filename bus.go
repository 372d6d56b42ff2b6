package irc

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Bus dispatches named events to registered handlers.
//
// Registration may change at any time, including while a trigger is in
// flight; each trigger works against the snapshot of handlers taken at
// the moment it was called.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]*subscription
	waiters  map[string]*waitSlot
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]*subscription),
		waiters:  make(map[string]*waitSlot),
	}
}

type subscription struct {
	id    uuid.UUID
	event string
	fn    handlerFunc
}

// Subscription identifies one registered handler so it can be removed
// with Off.
type Subscription struct {
	id    uuid.UUID
	event string
}

// Event returns the event name this subscription is registered for.
func (s *Subscription) Event() string { return s.event }

// waitSlot is the shared future for all Wait calls on one event. Every
// concurrent waiter receives the identical Fields value from the trigger
// that resolves the slot; the slot is replaced for the next round.
type waitSlot struct {
	done   chan struct{}
	fields Fields
}

// On registers fn for event. Accepted handler shapes are documented at
// bindHandler; an unusable shape is a RegistrationError returned here,
// never deferred to the first trigger. Event names are case-insensitive.
func (b *Bus) On(event string, fn any) (*Subscription, error) {
	event = normalizeEvent(event)
	h, err := bindHandler(event, fn)
	if err != nil {
		return nil, err
	}
	sub := &subscription{id: uuid.New(), event: event, fn: h}
	b.mu.Lock()
	b.handlers[event] = append(b.handlers[event], sub)
	b.mu.Unlock()
	return &Subscription{id: sub.id, event: event}, nil
}

// Off removes a registration made with On. Removing an already removed or
// nil subscription is a no-op. A trigger snapshot taken before Off still
// runs the handler one final time.
func (b *Bus) Off(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[sub.event]
	for i, s := range list {
		if s.id == sub.id {
			b.handlers[sub.event] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Trigger fires event with the given fields. Each handler registered at
// the moment of the call runs in its own goroutine; one handler's failure
// never cancels its siblings. The returned Fire resolves only after every
// handler in the snapshot has returned.
//
// The delivered field map always carries the event name under EventKey,
// replacing any caller-supplied value. Waiters on the event all resolve
// with the identical delivered map.
func (b *Bus) Trigger(event string, fields Fields) *Fire {
	event = normalizeEvent(event)

	delivered := make(Fields, len(fields)+1)
	for k, v := range fields {
		delivered[k] = v
	}
	delivered[EventKey] = event

	b.mu.Lock()
	snapshot := append([]*subscription(nil), b.handlers[event]...)
	slot := b.waiters[event]
	delete(b.waiters, event)
	b.mu.Unlock()

	if slot != nil {
		slot.fields = delivered
		close(slot.done)
	}

	fire := &Fire{done: make(chan struct{})}
	e := Event{Name: event, Fields: delivered}

	var wg sync.WaitGroup
	errs := make([]error, len(snapshot))
	for i, sub := range snapshot {
		wg.Add(1)
		go func(i int, fn handlerFunc) {
			defer wg.Done()
			errs[i] = fn(context.Background(), e)
		}(i, sub.fn)
	}
	go func() {
		wg.Wait()
		fire.err = stderrors.Join(errs...)
		close(fire.done)
	}()
	return fire
}

// Wait blocks until the next trigger of event and returns the delivered
// field map. Concurrent waiters on the same event share one slot and all
// receive the identical map; the slot is replaced after each fire, so a
// later Wait observes a later trigger.
func (b *Bus) Wait(ctx context.Context, event string) (Fields, error) {
	slot := b.waitSlot(normalizeEvent(event))
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-slot.done:
		return slot.fields, nil
	}
}

func (b *Bus) waitSlot(event string) *waitSlot {
	b.mu.Lock()
	defer b.mu.Unlock()
	slot := b.waiters[event]
	if slot == nil {
		slot = &waitSlot{done: make(chan struct{})}
		b.waiters[event] = slot
	}
	return slot
}

// WaitMode selects how WaitFor combines multiple events.
type WaitMode int

const (
	// WaitFirst resolves when any one of the events fires and abandons
	// the remaining waits.
	WaitFirst WaitMode = iota
	// WaitAll resolves once every event has fired at least once.
	WaitAll
)

// WaitFor waits on several events at once. The returned slice holds the
// delivered field map of each completed event in completion order; the
// EventKey entry identifies which event produced each map. Abandoning a
// wait never affects the handlers of the trigger that would have resolved
// it.
func (b *Bus) WaitFor(ctx context.Context, events []string, mode WaitMode) ([]Fields, error) {
	if len(events) == 0 {
		return nil, nil
	}

	// Acquire all slots before blocking on any of them so a fast
	// sequence of triggers cannot slip between two waits.
	slots := make([]*waitSlot, len(events))
	for i, event := range events {
		slots[i] = b.waitSlot(normalizeEvent(event))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan Fields, len(slots))
	for _, slot := range slots {
		go func(slot *waitSlot) {
			select {
			case <-ctx.Done():
			case <-slot.done:
				results <- slot.fields
			}
		}(slot)
	}

	want := len(slots)
	if mode == WaitFirst {
		want = 1
	}
	collected := make([]Fields, 0, want)
	for len(collected) < want {
		select {
		case <-ctx.Done():
			return collected, ctx.Err()
		case fields := <-results:
			collected = append(collected, fields)
		}
	}
	return collected, nil
}

// Fire is the joinable handle returned by Trigger.
type Fire struct {
	done chan struct{}
	err  error
}

// Done returns a channel that closes once every handler in the trigger's
// snapshot has returned.
func (f *Fire) Done() <-chan struct{} { return f.done }

// Err returns the joined errors of all failed handlers, nil while the
// fire is still running or when every handler succeeded.
func (f *Fire) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait blocks until the fire completes or ctx is cancelled. On
// completion it returns the joined handler errors.
func (f *Fire) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.done:
		return f.err
	}
}

func normalizeEvent(event string) string {
	return strings.ToUpper(strings.TrimSpace(event))
}
