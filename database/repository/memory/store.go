// Package memoryRepo keeps every repository in process memory. It backs the
// lifecycle tests and local runs without MongoDB.
package memoryRepo

import (
	"context"
	"sync"
	"time"

	"plantco/models"

	"go.mongodb.org/mongo-driver/bson"
)

type txKey struct{}

// Store holds all collections behind one mutex. WithTransaction holds the
// mutex for the whole unit of work, which gives serializable isolation, and
// restores the pre-transaction state when fn fails.
type Store struct {
	mu sync.Mutex

	products map[string]models.Product
	orders   map[string]models.Order
	bookings map[string]models.Booking
	users    map[string]models.User
	services map[string]models.Service
	promos   map[string]models.PromoCode
	reviews  map[string]models.Review
	counters map[string]int64
	effects  map[string]time.Time

	faults map[string]error
}

func NewStore() *Store {
	return &Store{
		products: map[string]models.Product{},
		orders:   map[string]models.Order{},
		bookings: map[string]models.Booking{},
		users:    map[string]models.User{},
		services: map[string]models.Service{},
		promos:   map[string]models.PromoCode{},
		reviews:  map[string]models.Review{},
		counters: map[string]int64{},
		effects:  map[string]time.Time{},
		faults:   map[string]error{},
	}
}

func (s *Store) Products() *Products { return &Products{s: s} }
func (s *Store) Orders() *Orders     { return &Orders{s: s} }
func (s *Store) Bookings() *Bookings { return &Bookings{s: s} }
func (s *Store) Users() *Users       { return &Users{s: s} }
func (s *Store) Catalog() *Catalog   { return &Catalog{s: s} }
func (s *Store) Reviews() *Reviews   { return &Reviews{s: s} }
func (s *Store) Counters() *Counters { return &Counters{s: s} }
func (s *Store) Effects() *Effects   { return &Effects{s: s} }

// WithTransaction implements database.Transactor. Nested calls join the
// outer unit of work.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) == s {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// InjectFailure makes the next call of op (for example "orders.Create")
// fail with err.
func (s *Store) InjectFailure(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// lock acquires the store mutex unless ctx already runs inside one of this
// store's transactions.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// fault must be called with the mutex held.
func (s *Store) fault(op string) error {
	if err, ok := s.faults[op]; ok {
		delete(s.faults, op)
		return err
	}
	return nil
}

type snapshot struct {
	products map[string]models.Product
	orders   map[string]models.Order
	bookings map[string]models.Booking
	users    map[string]models.User
	services map[string]models.Service
	promos   map[string]models.PromoCode
	reviews  map[string]models.Review
	counters map[string]int64
	effects  map[string]time.Time
}

// Stored values are never mutated in place, so copying the maps is enough.
func (s *Store) snapshot() snapshot {
	return snapshot{
		products: copyMap(s.products),
		orders:   copyMap(s.orders),
		bookings: copyMap(s.bookings),
		users:    copyMap(s.users),
		services: copyMap(s.services),
		promos:   copyMap(s.promos),
		reviews:  copyMap(s.reviews),
		counters: copyMap(s.counters),
		effects:  copyMap(s.effects),
	}
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.orders = snap.orders
	s.bookings = snap.bookings
	s.users = snap.users
	s.services = snap.services
	s.promos = snap.promos
	s.reviews = snap.reviews
	s.counters = snap.counters
	s.effects = snap.effects
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone deep-copies a document through its BSON encoding, so callers see
// the same shape a MongoDB round trip would give them.
func clone[T any](v T) T {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}
