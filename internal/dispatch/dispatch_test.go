package dispatch_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nyashahama/attendance-reminder-backend/internal/dispatch"
	"github.com/nyashahama/attendance-reminder-backend/internal/notify"
	"github.com/nyashahama/attendance-reminder-backend/internal/quicklink"
	"github.com/nyashahama/attendance-reminder-backend/internal/roster"
)

type sentEmail struct {
	serviceID  string
	templateID string
	params     map[string]string
}

// stubMailer records transport calls instead of hitting EmailJS.
type stubMailer struct {
	sends []sentEmail
	err   error
}

func (m *stubMailer) Send(_ context.Context, serviceID, templateID string, params map[string]string) (string, error) {
	m.sends = append(m.sends, sentEmail{serviceID: serviceID, templateID: templateID, params: params})
	if m.err != nil {
		return "", m.err
	}
	return "OK", nil
}

func newDispatcher(t *testing.T) (*dispatch.Dispatcher, *notify.Store, *stubMailer) {
	t.Helper()
	settings := notify.NewStore()
	ml := &stubMailer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	d := dispatch.New(dispatch.Config{
		ServiceID:  "service_x",
		TemplateID: "template_y",
		Location:   time.UTC,
	}, settings, roster.Default(), quicklink.New("http://localhost:8080"), ml, logger)

	return d, settings, ml
}

func configure(t *testing.T, settings *notify.Store) {
	t.Helper()
	if _, err := settings.Setup("a@b.com", ""); err != nil {
		t.Fatalf("configure settings: %v", err)
	}
}

// ─── Send — quiescent ─────────────────────────────────────────────────────────

func TestSend_UnconfiguredSkipsQuietly(t *testing.T) {
	d, _, ml := newDispatcher(t)

	res, err := d.Send(context.Background(), false)
	if err != nil {
		t.Fatalf("quiescent skip must not error: %v", err)
	}
	if !res.Skipped {
		t.Error("expected Skipped=true")
	}
	if res.ID == "" {
		t.Error("expected a correlation id even for a skipped dispatch")
	}
	if len(ml.sends) != 0 {
		t.Errorf("transport called %d times while unconfigured", len(ml.sends))
	}
}

func TestSend_TestWhileUnconfiguredAlsoSkips(t *testing.T) {
	d, settings, ml := newDispatcher(t)

	res, err := d.Send(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Skipped || !res.Test {
		t.Errorf("result: %+v", res)
	}
	if len(ml.sends) != 0 {
		t.Error("transport must stay untouched")
	}
	if got := settings.Get(); got.LastSent != nil {
		t.Error("skip must not touch lastSent")
	}
}

// ─── Send — real ──────────────────────────────────────────────────────────────

func TestSend_RealSetsLastSent(t *testing.T) {
	d, settings, ml := newDispatcher(t)
	configure(t, settings)
	before := time.Now()

	res, err := d.Send(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Skipped || res.Test {
		t.Errorf("result flags: %+v", res)
	}
	if res.Status != "OK" {
		t.Errorf("status: got %q", res.Status)
	}

	got := settings.Get()
	if got.LastSent == nil {
		t.Fatal("real send must record lastSent")
	}
	if got.LastSent.Before(before.Add(-time.Second)) {
		t.Errorf("lastSent %v predates the send", got.LastSent)
	}
	if len(ml.sends) != 1 {
		t.Fatalf("expected 1 transport call, got %d", len(ml.sends))
	}
}

func TestSend_RealTemplateParams(t *testing.T) {
	d, settings, ml := newDispatcher(t)
	configure(t, settings)

	if _, err := d.Send(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ml.sends) != 1 {
		t.Fatalf("expected 1 transport call, got %d", len(ml.sends))
	}

	sent := ml.sends[0]
	if sent.serviceID != "service_x" || sent.templateID != "template_y" {
		t.Errorf("transport ids: got %q/%q", sent.serviceID, sent.templateID)
	}

	p := sent.params
	if p["to_email"] != "a@b.com" {
		t.Errorf("to_email: got %q", p["to_email"])
	}
	if want := "Rahul Sharma, Priya Patel, Amit Kumar, Sneha Reddy, Vikram Singh"; p["employee_names"] != want {
		t.Errorf("employee_names: got %q", p["employee_names"])
	}
	if _, err := time.Parse("Monday, 02 January 2006", p["date"]); err != nil {
		t.Errorf("date %q does not match the template layout: %v", p["date"], err)
	}
	if want := "Attendance Reminder — " + p["date"]; p["subject"] != want {
		t.Errorf("subject: got %q, want %q", p["subject"], want)
	}
	if !strings.HasPrefix(p["quick_response_url"], "http://localhost:8080?response=resp_") {
		t.Errorf("quick_response_url: got %q", p["quick_response_url"])
	}
	if !strings.Contains(p["message"], "Rahul Sharma") {
		t.Errorf("message should list the roster, got %q", p["message"])
	}
}

// ─── Send — test ──────────────────────────────────────────────────────────────

func TestSend_TestLeavesLastSentNil(t *testing.T) {
	d, settings, ml := newDispatcher(t)
	configure(t, settings)

	res, err := d.Send(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Test || res.Skipped {
		t.Errorf("result flags: %+v", res)
	}

	if got := settings.Get(); got.LastSent != nil {
		t.Errorf("test send must not record lastSent, got %v", got.LastSent)
	}

	if len(ml.sends) != 1 {
		t.Fatalf("expected 1 transport call, got %d", len(ml.sends))
	}
	p := ml.sends[0].params
	if p["subject"] != "Test — Attendance Reminder Setup" {
		t.Errorf("test subject: got %q", p["subject"])
	}
	if !strings.Contains(p["message"], "test") {
		t.Errorf("test message should say it is a test, got %q", p["message"])
	}
}

// ─── Send — transport failure ─────────────────────────────────────────────────

func TestSend_TransportErrorPropagates(t *testing.T) {
	d, settings, ml := newDispatcher(t)
	configure(t, settings)

	sentinel := errors.New("emailjs unreachable")
	ml.err = sentinel

	_, err := d.Send(context.Background(), false)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error should wrap the transport error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "send reminder") {
		t.Errorf("error lacks context: %v", err)
	}
	if got := settings.Get(); got.LastSent != nil {
		t.Error("failed send must leave lastSent nil")
	}
}
