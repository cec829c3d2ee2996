// Package email defines the interface for transactional email delivery and
// provides an EmailJS-backed implementation.
package email

import "context"

// Sender is the interface the dispatch flow and scheduler use to send email.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// Send delivers one templated email through the provider and returns the
	// provider's status text ("OK" for EmailJS). The template referenced by
	// templateID decides how the params are rendered.
	Send(ctx context.Context, serviceID, templateID string, params map[string]string) (string, error)
}
