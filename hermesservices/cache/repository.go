package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository stores JSON encoded values under "<prefix>:<key>".
type Repository[Key comparable, Value any] struct {
	driver Driver
	prefix string
}

func NewRepository[Key comparable, Value any](
	driver Driver,
	prefix string,
) *Repository[Key, Value] {
	return &Repository[Key, Value]{
		driver: driver,
		prefix: prefix,
	}
}

func (r *Repository[Key, Value]) key(key Key) string {
	return fmt.Sprintf("%s:%v", r.prefix, key)
}

func (r *Repository[Key, Value]) Set(ctx context.Context, key Key, value Value, duration time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.driver.Set(ctx, r.key(key), string(encoded), duration)
}

func (r *Repository[Key, Value]) Get(ctx context.Context, key Key) (Value, error) {
	var target Value

	encoded, err := r.driver.Get(ctx, r.key(key))
	if err != nil {
		return target, err
	}

	if err := json.Unmarshal([]byte(encoded), &target); err != nil {
		return target, err
	}

	return target, nil
}

func (r *Repository[Key, Value]) Delete(ctx context.Context, key Key) error {
	return r.driver.Delete(ctx, r.key(key))
}

// Remember returns the cached value, or loads it and caches it for duration.
// Load errors are returned as they are and nothing is cached.
func (r *Repository[Key, Value]) Remember(
	ctx context.Context,
	key Key,
	duration time.Duration,
	load func(ctx context.Context) (Value, error),
) (Value, error) {
	value, err := r.Get(ctx, key)
	if err == nil {
		return value, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return value, err
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}

	if err := r.Set(ctx, key, value, duration); err != nil {
		return value, err
	}

	return value, nil
}
