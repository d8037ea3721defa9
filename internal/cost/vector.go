package cost

import "fmt"

// Vector is a fixed-length set of cost accumulators, one per configured
// dimension. Index 0 is the primary cost.
//
// A Vector is owned by a single record. Clone gives an independent copy and
// Take hands the storage over to a new owner, leaving the source empty.
type Vector struct {
	values []int64
}

// Len returns the number of dimensions held, 0 once the vector was taken.
func (v Vector) Len() int {
	return len(v.values)
}

// Valid reports whether the vector still owns its storage.
func (v Vector) Valid() bool {
	return v.values != nil
}

// At returns the accumulated cost for dimension i.
func (v Vector) At(i int) int64 {
	if v.values == nil {
		panic("cost: read of a moved-from vector")
	}
	return v.values[i]
}

// Primary returns the cost for dimension 0.
func (v Vector) Primary() int64 {
	return v.At(0)
}

// Add adds delta elementwise. Both vectors must have the same length.
func (v Vector) Add(delta Vector) {
	if len(delta.values) != len(v.values) {
		panic(fmt.Sprintf("cost: adding a %d dimension vector to a %d dimension vector", len(delta.values), len(v.values)))
	}
	for i, d := range delta.values {
		v.values[i] += d
	}
}

// Set overwrites dimension i.
func (v Vector) Set(i int, value int64) {
	v.values[i] = value
}

// Clone returns a deep copy.
func (v Vector) Clone() Vector {
	if v.values == nil {
		return Vector{}
	}
	values := make([]int64, len(v.values))
	copy(values, v.values)
	return Vector{values: values}
}

// Take transfers ownership of the storage to the returned vector. The
// receiver is left empty and must not be read again.
func (v *Vector) Take() Vector {
	moved := Vector{values: v.values}
	v.values = nil
	return moved
}

// Values returns a copy of the accumulators.
func (v Vector) Values() []int64 {
	values := make([]int64, len(v.values))
	copy(values, v.values)
	return values
}
