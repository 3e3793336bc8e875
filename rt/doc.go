// Package rt is the execution runtime that instrumented contract code calls
// into.
//
// A Runtime carries the per-invocation state: the energy ledger, the sticky
// fatal condition, the object hash counter, identity-interning tables and the
// StackWatcher. Every guarded entry point (ChargeEnergy, EnterMethod,
// ExitMethod, UnwrapThrowable) first consults the sticky fatal condition and
// returns it unchanged once it is set, so an invocation cannot continue past
// the point of failure.
//
// Execution is single-threaded per invocation and the Runtime does no
// locking. A Slot enforces that at most one Runtime is installed per
// executing thread. Reentrant calls into the same contract use
// CaptureSnapshot and ApplySnapshot around the nested invocation.
package rt
