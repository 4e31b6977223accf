// Package clock provides a tiny time abstraction.
//
// Expiry and cooldown math depends on Clocker instead of time.Now so that the
// verification flow can be exercised at exact instants. Frozen is the
// deterministic implementation used by tests.
package clock
