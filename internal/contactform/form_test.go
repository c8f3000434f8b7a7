package contactform

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/contact"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/notify"
	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fakeTransport struct {
	mu    sync.Mutex
	calls []contact.Submission
	reply string
	err   error
	block chan struct{}
}

func (f *fakeTransport) Submit(_ context.Context, sub contact.Submission) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, sub)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.reply, f.err
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type downSender struct{}

func (downSender) Name() string { return "down" }

func (downSender) Send(context.Context, notify.EmailMessage) error {
	return errors.New("provider down")
}

func quietLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

func fill(t *testing.T, f *Form) {
	t.Helper()
	require.NoError(t, f.Set(FieldName, "Jane"))
	require.NoError(t, f.Set(FieldEmail, "jane@example.com"))
	require.NoError(t, f.Set(FieldPhone, "555-0100"))
	require.NoError(t, f.Set(FieldService, "Deep clean"))
	require.NoError(t, f.Set(FieldMessage, "Two cats"))
}

func TestForm_SuccessClearsAndDismissesAfterFiveSeconds(t *testing.T) {
	clock := &fakeClock{}
	transport := &fakeTransport{reply: "Email sent successfully"}
	form := NewForm(transport, NewNotifier(clock, nil), quietLogger())
	fill(t, form)

	outcome, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.True(t, form.State().IsEmpty())
	assert.Equal(t, PhaseIdle, form.Phase())

	note := form.Notification()
	assert.True(t, note.Visible)
	assert.Equal(t, KindSuccess, note.Kind)
	assert.Equal(t, "Email sent successfully", note.Message)

	clock.Advance(4999 * time.Millisecond)
	assert.True(t, form.Notification().Visible)

	clock.Advance(time.Millisecond)
	assert.False(t, form.Notification().Visible)
}

func TestForm_SuccessFallbackMessage(t *testing.T) {
	clock := &fakeClock{}
	form := NewForm(&fakeTransport{}, NewNotifier(clock, nil), quietLogger())
	fill(t, form)

	_, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultSuccessMessage, form.Notification().Message)
}

func TestForm_RelayFailurePreservesState(t *testing.T) {
	clock := &fakeClock{}
	transport := &fakeTransport{err: &RelayError{Status: http.StatusInternalServerError, Message: contact.MsgSendFailed}}
	form := NewForm(transport, NewNotifier(clock, nil), quietLogger())
	fill(t, form)
	before := form.State()

	outcome, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, OutcomeFailure, outcome)
	assert.Equal(t, before, form.State())

	note := form.Notification()
	assert.Equal(t, KindError, note.Kind)
	assert.Equal(t, contact.MsgSendFailed, note.Message)
	assert.Equal(t, 1, transport.count())
}

func TestForm_TransportFailureUsesGenericMessage(t *testing.T) {
	transport := &fakeTransport{err: ErrTransport}
	form := NewForm(transport, NewNotifier(&fakeClock{}, nil), quietLogger())
	fill(t, form)

	_, err := form.Submit(context.Background())
	require.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, GenericErrorMessage, form.Notification().Message)
	assert.Equal(t, "Jane", form.State().Get(FieldName))
}

func TestForm_InvalidInputNeverReachesRelay(t *testing.T) {
	transport := &fakeTransport{}
	form := NewForm(transport, NewNotifier(&fakeClock{}, nil), quietLogger())
	require.NoError(t, form.Set(FieldName, "Jane"))
	require.NoError(t, form.Set(FieldEmail, "not-an-email"))

	outcome, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalid, outcome)
	assert.Zero(t, transport.count())
	assert.False(t, form.Notification().Visible)

	errs := form.FieldErrors()
	assert.Equal(t, []Field{FieldEmail, FieldPhone, FieldService}, errs.Fields())
	assert.Equal(t, MsgInvalidEmail, errs[FieldEmail])
	assert.Equal(t, MsgRequired, errs[FieldPhone])

	require.NoError(t, form.Set(FieldPhone, "555"))
	assert.NotContains(t, form.FieldErrors(), FieldPhone)
}

func TestForm_DisabledWhileSubmitting(t *testing.T) {
	transport := &fakeTransport{block: make(chan struct{})}
	form := NewForm(transport, NewNotifier(&fakeClock{}, nil), quietLogger())
	fill(t, form)

	done := make(chan Outcome)
	go func() {
		outcome, _ := form.Submit(context.Background())
		done <- outcome
	}()

	require.Eventually(t, func() bool { return form.Phase() == PhaseSubmitting }, time.Second, time.Millisecond)

	assert.ErrorIs(t, form.Set(FieldName, "Other"), ErrFormDisabled)
	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(transport.block)
	assert.Equal(t, OutcomeSuccess, <-done)
	assert.Equal(t, 1, transport.count())
}

func TestNotifier_NewerNotificationResetsTimer(t *testing.T) {
	clock := &fakeClock{}
	var seen []Notification
	n := NewNotifier(clock, func(s Notification) { seen = append(seen, s) })

	n.Show(KindError, "first")
	clock.Advance(3 * time.Second)
	n.Show(KindSuccess, "second")

	clock.Advance(3 * time.Second)
	assert.True(t, n.Current().Visible)
	assert.Equal(t, "second", n.Current().Message)

	clock.Advance(2 * time.Second)
	assert.False(t, n.Current().Visible)
	require.Len(t, seen, 3)
	assert.False(t, seen[2].Visible)
}

func TestNotifier_CloseCancelsPendingDismiss(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	n := NewNotifier(clock, func(Notification) { calls++ })

	n.Show(KindSuccess, "done")
	n.Close()
	assert.Zero(t, clock.pending())

	clock.Advance(10 * time.Second)
	assert.Equal(t, 1, calls)

	n.Show(KindSuccess, "ignored")
	assert.Equal(t, 1, calls)
}

func TestNotifier_HideClearsImmediately(t *testing.T) {
	clock := &fakeClock{}
	n := NewNotifier(clock, nil)
	n.Show(KindSuccess, "done")
	n.Hide()
	assert.False(t, n.Current().Visible)
	assert.Zero(t, clock.pending())
}

func TestFormClose(t *testing.T) {
	clock := &fakeClock{}
	form := NewForm(&fakeTransport{}, NewNotifier(clock, nil), quietLogger())
	fill(t, form)
	_, err := form.Submit(context.Background())
	require.NoError(t, err)

	form.Close()
	assert.Zero(t, clock.pending())
	assert.ErrorIs(t, form.Set(FieldName, "x"), ErrClosed)
}

func TestRelayClient_AgainstRelay(t *testing.T) {
	relay := contact.NewRelay(contact.Config{
		Provider: contact.ProviderStub,
		From:     "noreply@example.com",
		To:       "owner@example.com",
	}, notify.NewStubEmailSender(quietLogger()), nil, quietLogger())
	srv := httptest.NewServer(contact.NewHandler(relay))
	defer srv.Close()

	client := NewRelayClient(RelayClientConfig{Endpoint: srv.URL})

	msg, err := client.Submit(context.Background(), contact.Submission{
		Name: "A", Email: "a@b.com", Phone: "555", Service: "clean",
	})
	require.NoError(t, err)
	assert.Equal(t, contact.MsgSent, msg)

	_, err = client.Submit(context.Background(), contact.Submission{Name: "A"})
	var rejection *RelayError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, http.StatusBadRequest, rejection.Status)
	assert.Equal(t, "Missing required fields: email, phone, service", rejection.Message)
}

func TestRelayClient_RelayFailure(t *testing.T) {
	relay := contact.NewRelay(contact.Config{
		Provider: contact.ProviderStub,
		From:     "noreply@example.com",
		To:       "owner@example.com",
	}, downSender{}, nil, quietLogger())
	srv := httptest.NewServer(contact.NewHandler(relay))
	defer srv.Close()

	clock := &fakeClock{}
	form := NewForm(NewRelayClient(RelayClientConfig{Endpoint: srv.URL}), NewNotifier(clock, nil), quietLogger())
	fill(t, form)
	before := form.State()

	outcome, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, OutcomeFailure, outcome)
	assert.Equal(t, before, form.State())
	assert.Equal(t, contact.MsgSendFailed, form.Notification().Message)
}

func TestRelayClient_MalformedAndUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	client := NewRelayClient(RelayClientConfig{Endpoint: srv.URL})

	_, err := client.Submit(context.Background(), contact.Submission{Name: "A"})
	assert.ErrorIs(t, err, ErrTransport)

	srv.Close()
	_, err = client.Submit(context.Background(), contact.Submission{Name: "A"})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestRelayClient_RejectionWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRelayClient(RelayClientConfig{Endpoint: srv.URL}).Submit(context.Background(), contact.Submission{})
	var rejection *RelayError
	require.ErrorAs(t, err, &rejection)
	assert.Empty(t, rejection.Message)
	assert.Equal(t, GenericErrorMessage, failureMessage(err))
}
