package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronRunsJob(t *testing.T) {
	c := NewCron(nil)
	var runs int32

	_, err := c.Every(time.Second, func() { atomic.AddInt32(&runs, 1) })
	require.NoError(t, err)

	c.Start()
	defer c.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestCronRejectsNonPositiveInterval(t *testing.T) {
	c := NewCron(nil)
	_, err := c.Every(0, func() {})
	assert.Error(t, err)
}

func TestManualFire(t *testing.T) {
	m := NewManual()
	var order []int

	id, _ := m.Every(time.Second, func() { order = append(order, 1) })
	_, _ = m.Every(time.Second, func() { order = append(order, 2) })

	m.Fire()
	assert.Empty(t, order, "stopped scheduler must not run jobs")

	m.Start()
	m.Fire()
	assert.Equal(t, []int{1, 2}, order)

	m.Remove(id)
	m.Fire()
	assert.Equal(t, []int{1, 2, 2}, order)
	assert.Equal(t, 1, m.Jobs())
}
