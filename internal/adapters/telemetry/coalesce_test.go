package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/telemetry"
)

type chunks struct {
	mu  sync.Mutex
	got []string
}

func (c *chunks) sink(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, string(data))
}

func (c *chunks) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.got...)
}

func TestCoalescer_FlushOnSize(t *testing.T) {
	var c chunks
	co := telemetry.NewCoalescer(5, time.Hour, c.sink)
	defer func() { _ = co.Close() }()

	_, err := co.Write([]byte("123"))
	require.NoError(t, err)
	assert.Empty(t, c.snapshot())

	_, err = co.Write([]byte("456"))
	require.NoError(t, err)
	assert.Equal(t, []string{"123456"}, c.snapshot())
}

func TestCoalescer_FlushOnInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var c chunks
		co := telemetry.NewCoalescer(100, 50*time.Millisecond, c.sink)
		defer func() { _ = co.Close() }()

		_, err := co.Write([]byte("a"))
		require.NoError(t, err)
		_, err = co.Write([]byte("b"))
		require.NoError(t, err)

		time.Sleep(49 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, c.snapshot())

		time.Sleep(2 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"ab"}, c.snapshot())

		_, err = co.Write([]byte("c"))
		require.NoError(t, err)
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, []string{"ab", "c"}, c.snapshot())
	})
}

func TestCoalescer_Close(t *testing.T) {
	var c chunks
	co := telemetry.NewCoalescer(0, time.Hour, c.sink)

	_, err := co.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, co.Close())
	require.NoError(t, co.Close())
	assert.Equal(t, []string{"tail"}, c.snapshot())

	_, err = co.Write([]byte("late"))
	require.ErrorIs(t, err, telemetry.ErrCoalescerClosed)

	co.Flush()
	assert.Equal(t, []string{"tail"}, c.snapshot())
}
