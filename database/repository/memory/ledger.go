package memoryRepo

import (
	"context"
	"time"
)

type Counters struct{ s *Store }

func (r *Counters) Next(ctx context.Context, name string) (int64, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("counters.Next"); err != nil {
		return 0, err
	}
	r.s.counters[name]++
	return r.s.counters[name], nil
}

type Effects struct{ s *Store }

func (r *Effects) Apply(ctx context.Context, key string) (bool, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("effects.Apply"); err != nil {
		return false, err
	}
	if _, ok := r.s.effects[key]; ok {
		return false, nil
	}
	r.s.effects[key] = time.Now().UTC()
	return true, nil
}

func (r *Effects) Exists(ctx context.Context, key string) (bool, error) {
	defer r.s.lock(ctx)()
	_, ok := r.s.effects[key]
	return ok, nil
}
