package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyforge/learning-api/internal/core/ports"
)

type recordingMailer struct {
	mu    sync.Mutex
	sent  []ports.ResetNotice
	err   error
	calls chan struct{}
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{calls: make(chan struct{}, 64)}
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, n ports.ResetNotice) error {
	m.mu.Lock()
	m.sent = append(m.sent, n)
	m.mu.Unlock()
	m.calls <- struct{}{}
	return m.err
}

func (m *recordingMailer) waitFor(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d/%d", i+1, n)
		}
	}
}

func TestDispatcher_DeliversInOrderPerEmail(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := newRecordingMailer()
	d := NewDispatcher(3, mailer, zerolog.Nop())
	d.Start(ctx)

	tokens := []string{"t1", "t2", "t3", "t4"}
	for _, tok := range tokens {
		if err := d.Notify(ctx, ports.ResetNotice{Email: "ada@example.com", Token: tok}); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	mailer.waitFor(t, len(tokens))

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	for i, n := range mailer.sent {
		if n.Token != tokens[i] {
			t.Fatalf("expected %s at position %d, got %s", tokens[i], i, n.Token)
		}
	}
}

func TestDispatcher_MailerErrorDoesNotStopWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := newRecordingMailer()
	mailer.err = errors.New("smtp unavailable")
	d := NewDispatcher(1, mailer, zerolog.Nop())
	d.Start(ctx)

	for i := 0; i < 2; i++ {
		if err := d.Notify(ctx, ports.ResetNotice{Email: "ada@example.com"}); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}
	mailer.waitFor(t, 2)
}

func TestDispatcher_NotifyAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mailer := newRecordingMailer()
	d := NewDispatcher(1, mailer, zerolog.Nop())
	d.Start(ctx)
	cancel()

	select {
	case <-d.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatcher did not stop")
	}

	// The shard buffer has room, so every attempt must still be refused.
	for i := 0; i < 100; i++ {
		err := d.Notify(context.Background(), ports.ResetNotice{Email: "ada@example.com"})
		if !errors.Is(err, ErrDispatcherStopped) {
			t.Fatalf("attempt %d: expected ErrDispatcherStopped, got %v", i, err)
		}
	}
	if n := len(d.workers[0]); n != 0 {
		t.Fatalf("expected no stranded notices, found %d", n)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, newRecordingMailer(), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	a := d.shardIndex("ada@example.com")
	if a != d.shardIndex("ada@example.com") || a < 0 || a >= defaultWorkers {
		t.Fatalf("unstable or out-of-range shard index %d", a)
	}
}
