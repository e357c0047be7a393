package spinner

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spboyer/qagen/internal/submission"
	"github.com/stretchr/testify/assert"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStartStop(t *testing.T) {
	out := &syncBuffer{}
	s := New(out, "Generating...")

	s.Start()
	s.Start()
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Generating...")
	}, 2*time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.True(t, strings.HasSuffix(out.String(), "\r"+strings.Repeat(" ", len("Generating...")+2)+"\r"))
}

func TestSpinnerFollowsSubmission(t *testing.T) {
	out := &syncBuffer{}
	s := New(out, "Reviewing...")

	var sub submission.Submission[string]
	sub.OnTransition = s.Transition

	_, err := sub.Run(context.Background(), func(context.Context) (string, string, error) {
		assert.Eventually(t, func() bool {
			return strings.Contains(out.String(), "Reviewing...")
		}, 2*time.Second, 10*time.Millisecond)
		return "done", "", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, submission.Succeeded, sub.State())

	s.mu.Lock()
	running := s.stop != nil
	s.mu.Unlock()
	assert.False(t, running)
}
