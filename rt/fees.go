package rt

import "fmt"

// ---------------------------------------------------------------------------
// Array fee schedule
// ---------------------------------------------------------------------------

// ArrayElement is the element kind of a sandbox array.
type ArrayElement int

// Element kinds, in the order of the fee table.
const (
	BooleanElement ArrayElement = iota
	ByteElement
	CharElement
	ShortElement
	IntElement
	FloatElement
	LongElement
	DoubleElement
	ReferenceElement
)

var elementEnergy = [...]int64{
	BooleanElement:   1,
	ByteElement:      1,
	CharElement:      2,
	ShortElement:     2,
	IntElement:       4,
	FloatElement:     4,
	LongElement:      8,
	DoubleElement:    8,
	ReferenceElement: 8,
}

// Energy is the per-element allocation fee.
func (e ArrayElement) Energy() int64 {
	if e < 0 || int(e) >= len(elementEnergy) {
		return elementEnergy[ReferenceElement]
	}
	return elementEnergy[e]
}

const (
	// ArrayCloneFee is the fixed part of the fee for cloning an array.
	ArrayCloneFee int64 = 100
	// MethodFeeFactor scales the per-element part of runtime method fees.
	MethodFeeFactor int64 = 1
)

// ChargeArrayAllocation charges for allocating an array of length elements.
// A negative length raises java.lang.NegativeArraySizeException without
// charging.
func (r *Runtime) ChargeArrayAllocation(e ArrayElement, length int32) error {
	if f := r.state.forcedExit; f != nil {
		return f
	}
	if length < 0 {
		return &HostException{Class: "java.lang.NegativeArraySizeException", Message: fmt.Sprint(length)}
	}
	return r.ChargeEnergy(int64(length) * e.Energy())
}

// ChargeArrayClone charges for cloning an array of length elements. A
// negative length is handled as in ChargeArrayAllocation.
func (r *Runtime) ChargeArrayClone(length int32) error {
	if f := r.state.forcedExit; f != nil {
		return f
	}
	if length < 0 {
		return &HostException{Class: "java.lang.NegativeArraySizeException", Message: fmt.Sprint(length)}
	}
	return r.ChargeEnergy(ArrayCloneFee + MethodFeeFactor*int64(length))
}
