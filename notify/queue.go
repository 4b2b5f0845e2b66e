package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Kind discriminates queued message types.
type Kind string

const (
	// KindPasswordReset carries a raw reset token for the email's owner.
	KindPasswordReset Kind = "password_reset"
	// KindWelcome carries the temp password of a freshly provisioned account.
	KindWelcome Kind = "welcome"
)

// Message is one queued delivery. Secret is the raw reset token or temp
// password depending on Kind; it exists only in process memory until the
// mailer consumes it.
type Message struct {
	Kind   Kind
	Email  string
	Secret string
}

// Mailer performs the actual outbound delivery. Implementations own their
// transport (SMTP, API, log) and must be safe for use from one worker
// goroutine.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config controls queue buffering and the retry policy.
type Config struct {
	BufferSize     int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// SendTimeout bounds a single delivery attempt.
	SendTimeout time.Duration
}

// Queue is the async dispatcher between the engine and a [Mailer].
// Enqueueing never blocks: messages arriving while the buffer is full are
// dropped and counted, matching the best-effort contract of account email.
type Queue struct {
	cfg       Config
	mailer    Mailer
	ch        chan Message
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	failed    atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewQueue starts the delivery worker and returns the queue.
func NewQueue(cfg Config, mailer Mailer) *Queue {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}

	q := &Queue{
		cfg:    cfg,
		mailer: mailer,
		ch:     make(chan Message, cfg.BufferSize),
		done:   make(chan struct{}),
	}

	q.wg.Add(1)
	go q.run()

	return q
}

// Enqueue hands a message to the worker without blocking.
func (q *Queue) Enqueue(msg Message) {
	if q == nil || q.closed.Load() {
		return
	}
	select {
	case q.ch <- msg:
	default:
		q.dropped.Add(1)
	}
}

func (q *Queue) run() {
	defer q.wg.Done()

	for {
		select {
		case msg := <-q.ch:
			q.deliver(msg)
		case <-q.done:
			for {
				select {
				case msg := <-q.ch:
					q.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (q *Queue) deliver(msg Message) {
	backoff := q.cfg.InitialBackoff

	for attempt := 1; attempt <= q.cfg.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), q.cfg.SendTimeout)
		err := q.mailer.Send(ctx, msg)
		cancel()
		if err == nil {
			return
		}

		if attempt == q.cfg.MaxAttempts {
			break
		}

		select {
		case <-time.After(backoff):
		case <-q.done:
			// shutting down; one last immediate attempt below via loop exit
		}

		backoff *= 2
		if backoff > q.cfg.MaxBackoff {
			backoff = q.cfg.MaxBackoff
		}
	}

	q.failed.Add(1)
}

// Close stops accepting messages, drains the buffer, and waits for the
// worker to finish.
func (q *Queue) Close() {
	if q == nil {
		return
	}
	q.closeOnce.Do(func() {
		q.closed.Store(true)
		close(q.done)
		q.wg.Wait()
	})
}

// Dropped returns the number of messages rejected because the buffer was full.
func (q *Queue) Dropped() uint64 {
	if q == nil {
		return 0
	}
	return q.dropped.Load()
}

// Failed returns the number of messages abandoned after exhausting retries.
func (q *Queue) Failed() uint64 {
	if q == nil {
		return 0
	}
	return q.failed.Load()
}

// SendPasswordReset enqueues a reset-token delivery.
func (q *Queue) SendPasswordReset(email, rawToken string) {
	q.Enqueue(Message{Kind: KindPasswordReset, Email: email, Secret: rawToken})
}

// SendWelcomeEmail enqueues a provisioning delivery with the temp password.
func (q *Queue) SendWelcomeEmail(email, tempPassword string) {
	q.Enqueue(Message{Kind: KindWelcome, Email: email, Secret: tempPassword})
}
