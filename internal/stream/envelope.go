package stream

import (
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	retrySuffix = "-retry-"
	dltSuffix   = "-dlt"
)

// Envelope is the unit carried on a Redis stream. Channel always names the
// original channel the message was first published to, so retry hops and the
// dead-letter handler can report where it came from. Attempt counts deliveries
// starting at zero.
type Envelope struct {
	ID      string
	Key     string
	Channel string
	Attempt int
	Payload []byte
	Error   string
}

func (e Envelope) values() map[string]any {
	return map[string]any{
		"id":      e.ID,
		"key":     e.Key,
		"channel": e.Channel,
		"attempt": strconv.Itoa(e.Attempt),
		"payload": string(e.Payload),
		"error":   e.Error,
	}
}

func envelopeFromMessage(m redis.XMessage) Envelope {
	env := Envelope{}
	if v, ok := m.Values["id"].(string); ok {
		env.ID = v
	}
	if v, ok := m.Values["key"].(string); ok {
		env.Key = v
	}
	if v, ok := m.Values["channel"].(string); ok {
		env.Channel = v
	}
	if v, ok := m.Values["attempt"].(string); ok {
		env.Attempt, _ = strconv.Atoi(v)
	}
	if v, ok := m.Values["payload"].(string); ok {
		env.Payload = []byte(v)
	}
	if v, ok := m.Values["error"].(string); ok {
		env.Error = v
	}
	return env
}

// NextChannel routes a failed delivery: attempt n on the base channel or a
// retry channel moves to retry channel n+1, and the final attempt moves to
// the dead-letter channel. It is a pure function of its inputs.
func NextChannel(base string, attempt, maxAttempts int) string {
	if attempt >= maxAttempts-1 {
		return DLTChannel(base)
	}
	return fmt.Sprintf("%s%s%d", base, retrySuffix, attempt+1)
}

// RetryChannels lists every retry channel derived from the base channel, in
// delivery order.
func RetryChannels(base string, maxAttempts int) []string {
	out := make([]string, 0, maxAttempts-1)
	for i := 1; i < maxAttempts; i++ {
		out = append(out, fmt.Sprintf("%s%s%d", base, retrySuffix, i))
	}
	return out
}

// DLTChannel names the terminal channel for messages that exhausted retries.
func DLTChannel(base string) string {
	return base + dltSuffix
}
