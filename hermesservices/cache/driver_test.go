package cache_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lunagic/hermes/hermesservices/cache"
	"gotest.tools/v3/assert"
)

func testSuite(t *testing.T, driver cache.Driver) {
	t.Cleanup(func() {
		assert.NilError(t, driver.Close())
	})

	key := uuid.NewString()
	value := uuid.NewString()

	{ // Missing keys are not found
		_, err := driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}

	{ // Set then get
		assert.NilError(t, driver.Set(t.Context(), key, value, 30*time.Second))

		actual, err := driver.Get(t.Context(), key)
		assert.NilError(t, err)
		assert.Equal(t, actual, value)
	}

	{ // Delete
		assert.NilError(t, driver.Delete(t.Context(), key))

		_, err := driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}

	{ // Values expire
		key = uuid.NewString()
		assert.NilError(t, driver.Set(t.Context(), key, value, time.Second))

		actual, err := driver.Get(t.Context(), key)
		assert.NilError(t, err)
		assert.Equal(t, actual, value)

		time.Sleep(2 * time.Second)

		_, err = driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}
}
