package notify

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// LogMailer is a development [Mailer] that writes one JSON object per line
// instead of sending email. The secret is redacted.
type LogMailer struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewLogMailer(w io.Writer) *LogMailer {
	return &LogMailer{writer: w}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if m == nil || m.writer == nil {
		return nil
	}

	entry := struct {
		Timestamp time.Time `json:"timestamp"`
		Kind      Kind      `json:"kind"`
		Email     string    `json:"email"`
	}{
		Timestamp: time.Now(),
		Kind:      msg.Kind,
		Email:     msg.Email,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.writer.Write(data); err != nil {
		return err
	}
	_, err = m.writer.Write([]byte("\n"))
	return err
}
