// Package guard decides whether an incoming request should be served. It
// models the bot-detection/shield/rate-limit engine as an opaque oracle so
// any compliant provider can be substituted behind the Protector interface.
package guard

import "context"

// ReasonType classifies why a request was denied.
type ReasonType string

const (
	ReasonBot       ReasonType = "bot"
	ReasonShield    ReasonType = "shield"
	ReasonRateLimit ReasonType = "rate_limit"
)

// Reason carries the denial classification.
type Reason struct {
	Type ReasonType
}

func (r Reason) IsBot() bool       { return r.Type == ReasonBot }
func (r Reason) IsShield() bool    { return r.Type == ReasonShield }
func (r Reason) IsRateLimit() bool { return r.Type == ReasonRateLimit }

// Decision is the oracle's per-request verdict. It is ephemeral and never
// persisted.
type Decision struct {
	Denied bool
	Reason Reason
}

// IsDenied reports whether the request must be rejected.
func (d Decision) IsDenied() bool { return d.Denied }

// Rule describes one sliding-window quota. Name tags the counter so
// independent rules never share state.
type Rule struct {
	Name          string
	WindowSeconds int
	MaxRequests   int
}

// RequestInfo is the fingerprint of the incoming request submitted to the
// oracle.
type RequestInfo struct {
	IP        string
	UserAgent string
	Path      string
	Query     string
}

// Protector is the decision oracle. Protect returns an error only when the
// oracle itself fails; a denial is a normal Decision, not an error.
type Protector interface {
	Protect(ctx context.Context, req RequestInfo, rule Rule) (Decision, error)
}

// Allowed is the affirmative verdict.
func Allowed() Decision { return Decision{} }

// Denied builds a denial verdict with the given reason.
func Denied(t ReasonType) Decision {
	return Decision{Denied: true, Reason: Reason{Type: t}}
}
