package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (entry memoryEntry) expired(now time.Time) bool {
	return !now.Before(entry.expiresAt)
}

// NewDriverMemory keeps values in process. Expired entries are dropped when
// they are read and swept on every write.
func NewDriverMemory() (Driver, error) {
	return &driverMemory{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}, nil
}

type driverMemory struct {
	mutex   sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func (driver *driverMemory) Delete(ctx context.Context, key string) error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	delete(driver.entries, key)

	return nil
}

func (driver *driverMemory) Get(ctx context.Context, key string) (string, error) {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	entry, found := driver.entries[key]
	if !found {
		return "", ErrNotFound
	}

	if entry.expired(driver.now()) {
		delete(driver.entries, key)
		return "", ErrNotFound
	}

	return entry.value, nil
}

func (driver *driverMemory) Set(ctx context.Context, key string, value string, duration time.Duration) error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	now := driver.now()
	for k, entry := range driver.entries {
		if entry.expired(now) {
			delete(driver.entries, k)
		}
	}

	driver.entries[key] = memoryEntry{
		value:     value,
		expiresAt: now.Add(duration),
	}

	return nil
}

func (driver *driverMemory) Close() error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	clear(driver.entries)

	return nil
}
