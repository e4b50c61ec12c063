package viewer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMailboxDrainRunsInOrder(t *testing.T) {
	m := NewMailbox(4)
	var got []int
	for i := 0; i < 3; i++ {
		m.Post(func() { got = append(got, i) })
	}
	assert.Equal(t, 3, m.Drain())
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 0, m.Drain())
}

func TestMailboxPostDuringDrainWaits(t *testing.T) {
	m := NewMailbox(4)
	ran := 0
	m.Post(func() {
		ran++
		m.Post(func() { ran++ })
	})
	assert.Equal(t, 1, m.Drain())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, m.Drain())
	assert.Equal(t, 2, ran)
}

func TestMailboxCloseReleasesBlockedPoster(t *testing.T) {
	m := NewMailbox(1)
	m.Post(func() {})
	done := make(chan struct{})
	go func() {
		m.Post(func() {})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("post should block on a full mailbox")
	case <-time.After(20 * time.Millisecond):
	}
	m.Close()
	m.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("close did not release the poster")
	}
	m.Post(func() {})
}
