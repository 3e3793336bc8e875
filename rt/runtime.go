package rt

import (
	"fmt"

	"github.com/chazu/shadowvm/naming"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("shadowvm.rt")

// InitialHashCode is the hash counter value of a contract's first
// invocation, the one that runs its static initializers.
const InitialHashCode int32 = 1

// BlockchainRuntime is the blockchain context of the current invocation.
type BlockchainRuntime interface {
	Address() []byte
	Caller() []byte
}

// Limits configures the stack watcher of a Runtime.
type Limits struct {
	Policy   StackPolicy
	MaxDepth int32
	MaxSize  int32
}

// DefaultLimits enforces both stack limits at their default values.
func DefaultLimits() Limits {
	return Limits{Policy: PolicyAll, MaxDepth: DefaultMaxDepth, MaxSize: DefaultMaxSize}
}

// ---------------------------------------------------------------------------
// Execution state
// ---------------------------------------------------------------------------

// ExecutionState is the mutable state of one invocation.
type ExecutionState struct {
	blockchain      BlockchainRuntime
	loader          ClassLoader
	energyRemaining int64
	forcedExit      *Fatal
	nextHashCode    int32
	internedClasses map[Class]*ClassWrapper
	internedStrings map[string]*String // nil outside the first invocation
}

// snapshot is the side record of one checked-out ExecutionState.
type snapshot struct {
	blockchain      BlockchainRuntime
	loader          ClassLoader
	energyRemaining int64
	forcedExit      *Fatal
	internedClasses map[Class]*ClassWrapper
	internedStrings map[string]*String
	depth, size     int32
}

// ---------------------------------------------------------------------------
// Installation slot
// ---------------------------------------------------------------------------

// Slot holds the Runtime installed for one executing thread. The zero value
// is empty.
type Slot struct {
	current *Runtime
}

// Install makes r the current runtime. Installing over another runtime, or
// installing r while it sits in another slot, is an internal error.
func (s *Slot) Install(r *Runtime) error {
	if r == nil {
		return internalError("installing a nil runtime")
	}
	if s.current != nil {
		return internalError("a runtime is already installed")
	}
	if r.slot != nil {
		return internalError("runtime is installed in another slot")
	}
	s.current = r
	r.slot = s
	return nil
}

// Current returns the installed runtime, or nil.
func (s *Slot) Current() *Runtime { return s.current }

// Clear empties the slot.
func (s *Slot) Clear() {
	if s.current != nil {
		s.current.slot = nil
	}
	s.current = nil
}

// ---------------------------------------------------------------------------
// Runtime
// ---------------------------------------------------------------------------

// Runtime is the per-invocation context every instrumented call receives.
// It is not safe for concurrent use.
type Runtime struct {
	renamer   *naming.Renamer
	state     ExecutionState
	stack     *StackWatcher
	snapshots []snapshot
	slot      *Slot

	stringClass string
	classClass  string
}

// New returns an uninitialized runtime. The renamer decides the names of the
// sandbox types the runtime creates and drives exception bridging.
func New(renamer *naming.Renamer, limits Limits) (*Runtime, error) {
	stringClass, err := shadowName(renamer, "java/lang/String")
	if err != nil {
		return nil, err
	}
	classClass, err := shadowName(renamer, "java/lang/Class")
	if err != nil {
		return nil, err
	}
	w := NewStackWatcher(limits.Policy)
	if limits.MaxDepth > 0 {
		w.SetMaxDepth(limits.MaxDepth)
	}
	if limits.MaxSize > 0 {
		w.SetMaxSize(limits.MaxSize)
	}
	return &Runtime{
		renamer:     renamer,
		stack:       w,
		stringClass: stringClass,
		classClass:  classClass,
	}, nil
}

func shadowName(r *naming.Renamer, slashName string) (string, error) {
	name, err := r.ToPostRename(r.Style().Normalize(slashName), naming.NoArrayType)
	if err != nil {
		return "", fmt.Errorf("rt: resolve %s: %w", slashName, err)
	}
	return name, nil
}

// Renamer returns the renamer the runtime was built with.
func (r *Runtime) Renamer() *naming.Renamer { return r.renamer }

// StackWatcher returns the runtime's stack watcher.
func (r *Runtime) StackWatcher() *StackWatcher { return r.stack }

// Initialize prepares the runtime for an invocation. It must be called once
// before any sandboxed code runs; a second call without Teardown is an
// internal error. String constant interning is available only when
// nextHashCode is InitialHashCode.
func (r *Runtime) Initialize(loader ClassLoader, energyLimit int64, nextHashCode int32) error {
	if loader == nil {
		return internalError("initialize with nil loader")
	}
	if r.state.loader != nil {
		return internalError("runtime initialized twice")
	}
	r.state = ExecutionState{
		blockchain:      r.state.blockchain,
		loader:          loader,
		energyRemaining: energyLimit,
		nextHashCode:    nextHashCode,
		internedClasses: make(map[Class]*ClassWrapper),
	}
	if nextHashCode == InitialHashCode {
		r.state.internedStrings = make(map[string]*String)
	}
	r.stack.Reset()
	log.Debug("initialized", "energy", energyLimit, "hash", nextHashCode)
	return nil
}

// Initialized reports whether the runtime is between Initialize and
// Teardown.
func (r *Runtime) Initialized() bool { return r.state.loader != nil }

// Teardown clears all live state and releases the runtime's slot.
func (r *Runtime) Teardown() {
	r.state = ExecutionState{}
	r.snapshots = nil
	r.stack.Reset()
	if r.slot != nil {
		r.slot.Clear()
	}
	log.Debug("torn down")
}

// SetBlockchainRuntime attaches the blockchain context of the invocation.
func (r *Runtime) SetBlockchainRuntime(b BlockchainRuntime) { r.state.blockchain = b }

// BlockchainRuntime returns the attached blockchain context, or nil.
func (r *Runtime) BlockchainRuntime() BlockchainRuntime { return r.state.blockchain }

// Loader returns the class loader of the invocation, or nil.
func (r *Runtime) Loader() ClassLoader { return r.state.loader }

// ForcedExit returns the latched fatal condition, or nil.
func (r *Runtime) ForcedExit() *Fatal { return r.state.forcedExit }

// latch records f as the sticky fatal condition and returns it.
func (r *Runtime) latch(f *Fatal) *Fatal {
	if r.state.forcedExit == nil {
		r.state.forcedExit = f
		log.Notice("forced exit", "kind", f.Kind.String(), "cause", f.Cause)
	}
	return r.state.forcedExit
}

// ---------------------------------------------------------------------------
// Energy
// ---------------------------------------------------------------------------

// ChargeEnergy deducts cost from the ledger. Once the ledger goes negative
// the OutOfEnergy condition is latched and every later call returns it. A
// negative cost is an internal error and leaves the ledger unchanged.
func (r *Runtime) ChargeEnergy(cost int64) error {
	if f := r.state.forcedExit; f != nil {
		return f
	}
	if cost < 0 {
		return internalError("negative energy cost %d", cost)
	}
	r.state.energyRemaining -= cost
	if r.state.energyRemaining < 0 {
		return r.latch(&Fatal{Kind: OutOfEnergy})
	}
	return nil
}

// EnergyRemaining returns the ledger balance.
func (r *Runtime) EnergyRemaining() int64 { return r.state.energyRemaining }

// SetEnergy overwrites the ledger balance without touching the fatal latch.
func (r *Runtime) SetEnergy(energy int64) { r.state.energyRemaining = energy }

// ---------------------------------------------------------------------------
// Stack guards
// ---------------------------------------------------------------------------

// EnterMethod guards entry into an instrumented method.
func (r *Runtime) EnterMethod(frameSize int32) error {
	if f := r.state.forcedExit; f != nil {
		return f
	}
	if err := r.stack.EnterMethod(frameSize); err != nil {
		return r.latch(err.(*Fatal))
	}
	return nil
}

// ExitMethod guards a normal exit from an instrumented method.
func (r *Runtime) ExitMethod(frameSize int32) error {
	if f := r.state.forcedExit; f != nil {
		return f
	}
	if err := r.stack.ExitMethod(frameSize); err != nil {
		return r.latch(err.(*Fatal))
	}
	return nil
}

// EnterCatchBlock replays a stack stamp at catch entry.
func (r *Runtime) EnterCatchBlock(depth, size int32) {
	r.stack.EnterCatchBlock(depth, size)
}

// ---------------------------------------------------------------------------
// Identity
// ---------------------------------------------------------------------------

// NextHashCode returns the next object hash code.
func (r *Runtime) NextHashCode() int32 {
	h := r.state.nextHashCode
	r.state.nextHashCode++
	return h
}

// PeekHashCode returns the hash code the next object will receive.
func (r *Runtime) PeekHashCode() int32 { return r.state.nextHashCode }

// WrapAsClass returns the interned sandbox wrapper of c. A nil class maps
// to a nil wrapper.
func (r *Runtime) WrapAsClass(c Class) (*ClassWrapper, error) {
	if c == nil {
		return nil, nil
	}
	if r.state.internedClasses == nil {
		return nil, internalError("class interning on an uninitialized runtime")
	}
	w, ok := r.state.internedClasses[c]
	if !ok {
		w = &ClassWrapper{className: r.classClass, class: c}
		r.state.internedClasses[c] = w
	}
	return w, nil
}

// WrapAsString returns the interned sandbox wrapper of a string constant.
// It is available only during a contract's first invocation.
func (r *Runtime) WrapAsString(s string) (*String, error) {
	if r.state.internedStrings == nil {
		return nil, internalError("string constant interning outside the first invocation")
	}
	w, ok := r.state.internedStrings[s]
	if !ok {
		w = r.NewString(s)
		r.state.internedStrings[s] = w
	}
	return w, nil
}

// NewString returns a fresh, uninterned sandbox string.
func (r *Runtime) NewString(s string) *String {
	return &String{className: r.stringClass, value: s}
}

// ---------------------------------------------------------------------------
// Reentrancy
// ---------------------------------------------------------------------------

// CaptureSnapshot checks out the live state before a nested invocation of
// the same contract and returns the hash counter the nested invocation
// should start from. After it returns the runtime is uninitialized.
func (r *Runtime) CaptureSnapshot() int32 {
	r.snapshots = append(r.snapshots, snapshot{
		blockchain:      r.state.blockchain,
		loader:          r.state.loader,
		energyRemaining: r.state.energyRemaining,
		forcedExit:      r.state.forcedExit,
		internedClasses: r.state.internedClasses,
		internedStrings: r.state.internedStrings,
		depth:           r.stack.CurrentDepth(),
		size:            r.stack.CurrentSize(),
	})
	next := r.state.nextHashCode
	r.state = ExecutionState{nextHashCode: next}
	log.Debug("snapshot captured", "level", len(r.snapshots), "hash", next)
	return next
}

// ApplySnapshot checks the most recent snapshot back in after the nested
// invocation returned. nextHashCode is the nested invocation's final hash
// counter so numbering stays monotonic.
func (r *Runtime) ApplySnapshot(nextHashCode int32) error {
	n := len(r.snapshots)
	if n == 0 {
		return internalError("apply snapshot without capture")
	}
	s := r.snapshots[n-1]
	r.snapshots = r.snapshots[:n-1]
	r.state = ExecutionState{
		blockchain:      s.blockchain,
		loader:          s.loader,
		energyRemaining: s.energyRemaining,
		forcedExit:      s.forcedExit,
		nextHashCode:    nextHashCode,
		internedClasses: s.internedClasses,
		internedStrings: s.internedStrings,
	}
	r.stack.EnterCatchBlock(s.depth, s.size)
	log.Debug("snapshot applied", "level", n, "hash", nextHashCode)
	return nil
}
