// Package reasoning turns a takeover snapshot into a human-readable
// explanation. Callers only ever see a value: every failure of the remote
// service is replaced by the fixed fallback explanation.
package reasoning

import (
	"context"
	"errors"
	"time"

	"torhmi/internal/logging"
	"torhmi/internal/types"
)

// Fallback explanation fields.
const (
	FallbackReason  = "System limits reached. Immediate manual intervention required for safety."
	FallbackUrgency = 10
	FallbackAction  = "GRAB STEERING WHEEL NOW"
)

// ErrUnavailable is returned by explainers that cannot reach any service.
var ErrUnavailable = errors.New("reasoning service unavailable")

// Fallback returns the explanation used whenever the service fails.
func Fallback() types.TakeoverExplanation {
	return types.TakeoverExplanation{
		Reason:  FallbackReason,
		Urgency: FallbackUrgency,
		Action:  FallbackAction,
	}
}

// Explainer is a reasoning transport. Implementations may fail.
type Explainer interface {
	Explain(ctx context.Context, snap types.Snapshot) (types.TakeoverExplanation, error)
}

// ExplainerFunc adapts a function to Explainer.
type ExplainerFunc func(ctx context.Context, snap types.Snapshot) (types.TakeoverExplanation, error)

// Explain calls f.
func (f ExplainerFunc) Explain(ctx context.Context, snap types.Snapshot) (types.TakeoverExplanation, error) {
	return f(ctx, snap)
}

// Unavailable is the explainer used when no provider is configured.
type Unavailable struct {
	Why string
}

// Explain always fails with ErrUnavailable.
func (u Unavailable) Explain(context.Context, types.Snapshot) (types.TakeoverExplanation, error) {
	return types.TakeoverExplanation{}, ErrUnavailable
}

// Result is the outcome of one reasoning request.
type Result struct {
	Explanation types.TakeoverExplanation
	Fallback    bool          // true when Explanation is the fixed fallback
	Cause       error         // why the fallback was used; nil otherwise
	Latency     time.Duration // wall time of the request
}

// Reasoner wraps an Explainer so that it never fails.
type Reasoner struct {
	explainer Explainer
	timeout   time.Duration
}

// NewReasoner wraps e. A positive timeout bounds each request.
func NewReasoner(e Explainer, timeout time.Duration) *Reasoner {
	if e == nil {
		e = Unavailable{Why: "no explainer"}
	}
	return &Reasoner{explainer: e, timeout: timeout}
}

// Explain asks the explainer for an explanation of snap. Transport errors,
// timeouts, cancellation, panics and invalid payloads all produce the
// fallback.
func (r *Reasoner) Explain(ctx context.Context, snap types.Snapshot) (res Result) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	log := logging.Get(logging.CategoryReasoning).With("request_id", snap.RequestID)
	timer := logging.StartTimer(logging.CategoryReasoning, "takeover explanation")
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			log.Error("explainer panicked: %v", p)
			res = Result{Explanation: Fallback(), Fallback: true, Cause: errors.New("explainer panicked")}
		}
		res.Latency = time.Since(start)
		timer.StopWithThreshold(5 * time.Second)
	}()

	exp, err := r.explainer.Explain(ctx, snap)
	if err == nil {
		err = Validate(exp)
	}
	if err != nil {
		log.Warn("using fallback explanation: %v", err)
		return Result{Explanation: Fallback(), Fallback: true, Cause: err}
	}

	log.Info("explanation received: urgency=%d", exp.Urgency)
	return Result{Explanation: exp}
}
