package policy

import "errors"

// ErrAccessDenied is returned by Guarded.Reveal when the bound policy
// rejects the context. Callers recover it locally, typically into a
// redaction sentinel; it is never fatal to the request.
var ErrAccessDenied = errors.New("policy: access denied")

// Guarded binds a raw value to the policy of the instance it was read from.
// The only way to get the value back out is Reveal, which re-runs the
// policy check against the caller's context.
type Guarded[T any] struct {
	value  T
	policy Policy
}

func Guard[T any](value T, p Policy) Guarded[T] {
	return Guarded[T]{value: value, policy: p}
}

func (g Guarded[T]) Reveal(ctx Context) (T, error) {
	if g.policy == nil || !g.policy.Check(ctx) {
		var zero T
		return zero, ErrAccessDenied
	}

	return g.value, nil
}

// Map derives a new guarded value from the current raw value. The derived
// value keeps the exact policy binding of its source, so projections can
// neither weaken nor strengthen the applicable rule.
func Map[T, U any](g Guarded[T], fn func(T) U) Guarded[U] {
	return Guarded[U]{value: fn(g.value), policy: g.policy}
}
