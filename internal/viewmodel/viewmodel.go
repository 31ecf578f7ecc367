// Package viewmodel holds the presentation state for the posts list.
//
// A ViewModel is built with an injected provider.Provider and immediately
// starts exactly one fetch. Its State is observable: renderers register with
// Observe or Subscribe and are told about every change in order. A failed
// fetch leaves the posts untouched and is surfaced through State.Err.
package viewmodel

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/go-logr/logr"

	"github.com/idilsaglam/posts/internal/model"
	"github.com/idilsaglam/posts/internal/provider"
)

// ErrNilProvider is returned by New when no provider is injected.
var ErrNilProvider = errors.New("viewmodel: nil provider")

// Status is the lifecycle of the single fetch.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// State is a snapshot of the observable attributes.
type State struct {
	Posts  []model.Post
	Status Status
	Err    error
}

// ViewModel publishes the posts fetched from its provider.
type ViewModel struct {
	provider provider.Provider
	log      logr.Logger

	// emitMu serializes deliveries so observers see states in order.
	emitMu sync.Mutex

	mu        sync.Mutex
	state     State
	observers map[int]func(State)
	nextID    int

	done chan struct{}
}

// Option configures a ViewModel at construction.
type Option func(*ViewModel)

// WithLogger sets the logger used while fetching.
func WithLogger(l logr.Logger) Option {
	return func(vm *ViewModel) { vm.log = l }
}

// New builds a ViewModel around p and starts its one fetch on a goroutine
// bound to ctx.
func New(ctx context.Context, p provider.Provider, opts ...Option) (*ViewModel, error) {
	if p == nil {
		return nil, ErrNilProvider
	}
	vm := &ViewModel{
		provider:  p,
		log:       logr.Discard(),
		state:     State{Posts: []model.Post{}, Status: StatusLoading},
		observers: make(map[int]func(State)),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(vm)
	}
	go vm.load(ctx)
	return vm, nil
}

func (vm *ViewModel) load(ctx context.Context) {
	defer close(vm.done)

	vm.log.V(1).Info("fetching posts")
	posts, err := vm.provider.FetchPosts(ctx)
	if err != nil {
		vm.log.Error(err, "fetch posts failed")
		vm.publish(func(s *State) {
			s.Status = StatusFailed
			s.Err = err
		})
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	vm.log.Info("posts loaded", "count", len(posts))
	vm.publish(func(s *State) {
		s.Posts = posts
		s.Status = StatusReady
		s.Err = nil
	})
}

// publish applies mutate under the state lock, then hands the resulting
// snapshot to every observer outside it.
func (vm *ViewModel) publish(mutate func(*State)) {
	vm.emitMu.Lock()
	defer vm.emitMu.Unlock()

	vm.mu.Lock()
	mutate(&vm.state)
	snap := vm.snapshotLocked()
	ids := sortedKeys(vm.observers)
	vm.mu.Unlock()

	for _, id := range ids {
		vm.mu.Lock()
		fn, ok := vm.observers[id]
		vm.mu.Unlock()
		if ok {
			fn(snap)
		}
	}
}

func (vm *ViewModel) snapshotLocked() State {
	return State{
		Posts:  slices.Clone(vm.state.Posts),
		Status: vm.state.Status,
		Err:    vm.state.Err,
	}
}

// State returns a copy of the current state.
func (vm *ViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.snapshotLocked()
}

// Posts returns a copy of the published posts.
func (vm *ViewModel) Posts() []model.Post {
	return vm.State().Posts
}

// Err returns the surfaced fetch error, if any.
func (vm *ViewModel) Err() error {
	return vm.State().Err
}

// Done is closed once the fetch has completed and observers were notified.
func (vm *ViewModel) Done() <-chan struct{} {
	return vm.done
}

// Wait blocks until the fetch completes or ctx is done.
func (vm *ViewModel) Wait(ctx context.Context) (State, error) {
	select {
	case <-vm.done:
		return vm.State(), nil
	case <-ctx.Done():
		return vm.State(), ctx.Err()
	}
}

// Observe calls fn with the current state right away and again after every
// change. Calls are serialized. fn must not call Observe or Subscribe.
// The returned func stops further calls, including those of a publish
// already in progress.
func (vm *ViewModel) Observe(fn func(State)) (cancel func()) {
	vm.emitMu.Lock()
	defer vm.emitMu.Unlock()

	vm.mu.Lock()
	id := vm.nextID
	vm.nextID++
	vm.observers[id] = fn
	snap := vm.snapshotLocked()
	vm.mu.Unlock()

	fn(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			vm.mu.Lock()
			delete(vm.observers, id)
			vm.mu.Unlock()
		})
	}
}

// Subscribe returns a channel holding the latest state. Slow readers skip
// intermediate states but always see the most recent one.
func (vm *ViewModel) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	cancel := vm.Observe(func(s State) {
		select {
		case <-ch:
		default:
		}
		ch <- s
	})
	return ch, cancel
}

func sortedKeys(m map[int]func(State)) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
