package notify

import (
	"context"
	"time"
)

// SendObserver records provider call outcomes.
type SendObserver interface {
	ObserveProviderSend(provider, status string, seconds float64)
}

type instrumentedSender struct {
	next     EmailSender
	observer SendObserver
	now      func() time.Time
}

// Instrumented wraps sender so every Send reports latency and outcome.
// A nil observer returns sender unchanged.
func Instrumented(sender EmailSender, observer SendObserver) EmailSender {
	if sender == nil || observer == nil {
		return sender
	}
	return &instrumentedSender{next: sender, observer: observer, now: time.Now}
}

func (s *instrumentedSender) Name() string { return s.next.Name() }

func (s *instrumentedSender) Send(ctx context.Context, msg EmailMessage) error {
	start := s.now()
	err := s.next.Send(ctx, msg)
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.observer.ObserveProviderSend(s.next.Name(), status, s.now().Sub(start).Seconds())
	return err
}
