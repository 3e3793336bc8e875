package rt

import "fmt"

// ---------------------------------------------------------------------------
// Stack watcher
// ---------------------------------------------------------------------------

// StackPolicy selects which limits the watcher enforces.
type StackPolicy uint8

const (
	// PolicyDepth limits the number of nested frames.
	PolicyDepth StackPolicy = 1 << iota
	// PolicySize limits the total slots of the nested frames.
	PolicySize

	// PolicyAll enforces both limits.
	PolicyAll = PolicyDepth | PolicySize
)

const (
	// ReservedSandboxSlots is charged per frame for sandbox bookkeeping.
	ReservedSandboxSlots = 10
	// ReservedHostSlots is charged per frame for host frame overhead.
	ReservedHostSlots = 10

	// DefaultMaxDepth is the frame limit of a new watcher.
	DefaultMaxDepth = 200
	// DefaultMaxSize is the slot limit of a new watcher.
	DefaultMaxSize = 100000
)

// StackWatcher tracks call depth and frame slot usage against limits. It
// reports violations but does not latch them; Runtime does that.
type StackWatcher struct {
	policy   StackPolicy
	curDepth int32
	curSize  int32
	maxDepth int32
	maxSize  int32
}

// NewStackWatcher returns a watcher enforcing policy with the default limits.
func NewStackWatcher(policy StackPolicy) *StackWatcher {
	return &StackWatcher{policy: policy, maxDepth: DefaultMaxDepth, maxSize: DefaultMaxSize}
}

// Policy returns the enforced limits.
func (w *StackWatcher) Policy() StackPolicy { return w.policy }

// SetPolicy changes the enforced limits without touching the counters.
func (w *StackWatcher) SetPolicy(policy StackPolicy) { w.policy = policy }

// CurrentDepth returns the number of entered frames.
func (w *StackWatcher) CurrentDepth() int32 { return w.curDepth }

// CurrentSize returns the slots held by the entered frames.
func (w *StackWatcher) CurrentSize() int32 { return w.curSize }

// MaxDepth returns the frame limit.
func (w *StackWatcher) MaxDepth() int32 { return w.maxDepth }

// MaxSize returns the slot limit.
func (w *StackWatcher) MaxSize() int32 { return w.maxSize }

// SetMaxDepth sets the frame limit.
func (w *StackWatcher) SetMaxDepth(depth int32) { w.maxDepth = depth }

// SetMaxSize sets the slot limit.
func (w *StackWatcher) SetMaxSize(size int32) { w.maxSize = size }

// frameCost is computed in int64 so that no frame size can wrap the sum.
func frameCost(frameSize int32) int64 {
	return int64(frameSize) + ReservedSandboxSlots + ReservedHostSlots
}

// EnterMethod accounts for a new frame of frameSize slots. A negative
// frameSize is rejected as OutOfStack.
func (w *StackWatcher) EnterMethod(frameSize int32) error {
	if frameSize < 0 {
		return &Fatal{Kind: OutOfStack, Cause: fmt.Errorf("negative frame size %d", frameSize)}
	}
	if w.policy&PolicyDepth != 0 {
		w.curDepth++
		if w.curDepth > w.maxDepth {
			return &Fatal{Kind: OutOfStack, Cause: fmt.Errorf("depth %d exceeds %d", w.curDepth, w.maxDepth)}
		}
	}
	if w.policy&PolicySize != 0 {
		next := int64(w.curSize) + frameCost(frameSize)
		if next > int64(w.maxSize) {
			return &Fatal{Kind: OutOfStack, Cause: fmt.Errorf("frame size %d exceeds %d", next, w.maxSize)}
		}
		w.curSize = int32(next)
	}
	return nil
}

// ExitMethod releases a frame entered with the same frameSize. Going below
// zero means the bookkeeping is corrupt and is reported as OutOfStack.
func (w *StackWatcher) ExitMethod(frameSize int32) error {
	if frameSize < 0 {
		return &Fatal{Kind: OutOfStack, Cause: fmt.Errorf("negative frame size %d", frameSize)}
	}
	if w.policy&PolicyDepth != 0 {
		w.curDepth--
		if w.curDepth < 0 {
			return &Fatal{Kind: OutOfStack, Cause: fmt.Errorf("depth underflow")}
		}
	}
	if w.policy&PolicySize != 0 {
		next := int64(w.curSize) - frameCost(frameSize)
		if next < 0 {
			return &Fatal{Kind: OutOfStack, Cause: fmt.Errorf("frame size underflow")}
		}
		w.curSize = int32(next)
	}
	return nil
}

// EnterCatchBlock restores the counters from the stamp taken when the
// enclosing try region was entered. Catch blocks without a stamp in front of
// them leave the counters wrong; the watcher does not try to repair that.
func (w *StackWatcher) EnterCatchBlock(depth, size int32) {
	w.curDepth = depth
	w.curSize = size
}

// Reset zeroes both counters.
func (w *StackWatcher) Reset() {
	w.curDepth = 0
	w.curSize = 0
}
