package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/watcher"
)

type calls struct {
	mu    sync.Mutex
	count int
	last  []string
}

func (c *calls) record(paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	c.last = paths
}

func (c *calls) get() (int, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count, c.last
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c calls
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Add("/project/src/file2.go")
		d.Add("/project/src/file1.go")
		d.Add("/project/src/file2.go")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		count, paths := c.get()
		require.Equal(t, 1, count)
		assert.Equal(t, []string{"/project/src/file1.go", "/project/src/file2.go"}, paths)
	})
}

func TestDebouncer_AddRestartsWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c calls
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Add("a")
		time.Sleep(50 * time.Millisecond)
		d.Add("b")
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		count, _ := c.get()
		assert.Equal(t, 0, count)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		count, paths := c.get()
		require.Equal(t, 1, count)
		assert.Equal(t, []string{"a", "b"}, paths)
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c calls
		d := watcher.NewDebouncer(100*time.Millisecond, c.record)

		d.Flush()
		count, _ := c.get()
		assert.Equal(t, 0, count)

		d.Add("a")
		d.Flush()
		count, paths := c.get()
		require.Equal(t, 1, count)
		assert.Equal(t, []string{"a"}, paths)

		// The stopped timer does not deliver again.
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		count, _ = c.get()
		assert.Equal(t, 1, count)

		d.Add("b")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		d.Flush()

		count, paths = c.get()
		assert.Equal(t, 2, count)
		assert.Equal(t, []string{"b"}, paths)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)
		d.Add("a")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		d.Add("b")
		d.Flush()
	})
}
