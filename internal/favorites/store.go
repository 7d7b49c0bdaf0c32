// Package favorites keeps the user's favorite drinks in a key-value store.
//
// The whole collection lives under a single key as a JSON array of drink
// snapshots. Every mutation reads the array, changes it in memory and writes
// the full array back. A Store serializes its operations so two concurrent
// mutations never overwrite each other's result.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mrlokans/cocktails/internal/entities"
	"github.com/mrlokans/cocktails/internal/kvstore"
)

// DefaultKey is the storage key of the favorites collection.
const DefaultKey = entities.KeyFavoriteCocktails

// AddOutcome reports what Add did.
type AddOutcome int

const (
	Added AddOutcome = iota + 1
	AlreadyExists
)

func (o AddOutcome) String() string {
	switch o {
	case Added:
		return "added"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// RemoveOutcome reports what Remove did.
type RemoveOutcome int

const (
	Removed RemoveOutcome = iota + 1
	NotPresent
)

func (o RemoveOutcome) String() string {
	switch o {
	case Removed:
		return "removed"
	case NotPresent:
		return "not_present"
	default:
		return "unknown"
	}
}

// EventKind identifies a committed change to the collection.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventRemoved EventKind = "removed"
	EventReset   EventKind = "reset"
)

// Event describes a change after it has been persisted. Drink is the affected
// snapshot and is zero for EventReset.
type Event struct {
	Kind  EventKind
	Drink entities.Drink
}

// Store manages the favorites collection.
type Store struct {
	kv  kvstore.Store
	key string

	mu        sync.Mutex
	listeners []func(Event)
}

// NewStore creates a favorites store persisting under DefaultKey.
func NewStore(kv kvstore.Store) *Store {
	return NewStoreWithKey(kv, DefaultKey)
}

// NewStoreWithKey creates a favorites store persisting under key.
func NewStoreWithKey(kv kvstore.Store, key string) *Store {
	return &Store{kv: kv, key: key}
}

// OnChange registers fn to be called after each persisted mutation.
// Listeners run synchronously on the mutating goroutine, outside the store lock.
func (s *Store) OnChange(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// LoadAll returns the persisted collection in insertion order. An absent key
// or empty value yields an empty collection; an unparseable value yields a
// *CorruptError.
func (s *Store) LoadAll(ctx context.Context) ([]entities.Drink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Contains reports whether a drink with id is in the collection.
func (s *Store) Contains(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drinks, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(drinks, id) >= 0, nil
}

// Add appends a snapshot of drink unless one with the same identifier exists.
// AlreadyExists leaves storage untouched.
func (s *Store) Add(ctx context.Context, drink entities.Drink) (AddOutcome, error) {
	if drink.ID == "" {
		return 0, ErrInvalidDrink
	}

	s.mu.Lock()
	drinks, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if indexOf(drinks, drink.ID) >= 0 {
		s.mu.Unlock()
		return AlreadyExists, nil
	}

	drinks = append(drinks, drink)
	if err := s.save(ctx, drinks); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, Event{Kind: EventAdded, Drink: drink})
	return Added, nil
}

// Remove deletes the record with id. NotPresent leaves storage untouched.
func (s *Store) Remove(ctx context.Context, id string) (RemoveOutcome, error) {
	s.mu.Lock()
	drinks, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	i := indexOf(drinks, id)
	if i < 0 {
		s.mu.Unlock()
		return NotPresent, nil
	}

	removed := drinks[i]
	remaining := make([]entities.Drink, 0, len(drinks)-1)
	remaining = append(remaining, drinks[:i]...)
	remaining = append(remaining, drinks[i+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, Event{Kind: EventRemoved, Drink: removed})
	return Removed, nil
}

// Reset discards the persisted collection, including an unreadable one.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("reset favorites: %w", err)
	}
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, Event{Kind: EventReset})
	return nil
}

func (s *Store) load(ctx context.Context) ([]entities.Drink, error) {
	value, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	if !found || value == "" {
		return []entities.Drink{}, nil
	}

	var drinks []entities.Drink
	if err := json.Unmarshal([]byte(value), &drinks); err != nil {
		return nil, &CorruptError{Key: s.key, Err: err}
	}
	if drinks == nil {
		// A stored JSON null is not a collection.
		return nil, &CorruptError{Key: s.key, Err: fmt.Errorf("value is null")}
	}
	return drinks, nil
}

func (s *Store) save(ctx context.Context, drinks []entities.Drink) error {
	data, err := json.Marshal(drinks)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write favorites: %w", err)
	}
	return nil
}

func indexOf(drinks []entities.Drink, id string) int {
	for i := range drinks {
		if drinks[i].ID == id {
			return i
		}
	}
	return -1
}

func notify(listeners []func(Event), event Event) {
	for _, fn := range listeners {
		fn(event)
	}
}
