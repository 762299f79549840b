// This package contains the FIFO container that backs the queue.
package buffer

// FIFO is an unbounded first-in-first-out container.
//
// It is built from two stacks: pushes land on the intake stack and pops are served from the
// outtake stack. When the outtake stack runs dry it is refilled by reversing the intake stack
// into it. Every element is moved at most once over its lifetime, so both Enqueue and Dequeue
// are amortized O(1).
//
// Instances are not considered thread-safe; the queue serializes all access to its FIFO.
type FIFO[Element any] struct {
	intake  []Element
	outtake []Element
}

// New creates an empty FIFO with both stacks pre-sized to capacity.
func New[Element any](capacity int) *FIFO[Element] {
	return &FIFO[Element]{
		intake:  make([]Element, 0, capacity),
		outtake: make([]Element, 0, capacity),
	}
}

// Enqueue appends an element to the back.
func (f *FIFO[Element]) Enqueue(element Element) {
	f.intake = append(f.intake, element)
}

// Dequeue removes and returns the front element. Returns false if the FIFO is empty.
func (f *FIFO[Element]) Dequeue() (Element, bool) {
	if len(f.outtake) == 0 {
		for i := len(f.intake) - 1; i >= 0; i-- {
			f.outtake = append(f.outtake, f.intake[i])
		}
		clear(f.intake)
		f.intake = f.intake[:0]
	}

	if len(f.outtake) == 0 {
		var zero Element
		return zero, false
	}

	last := len(f.outtake) - 1
	element := f.outtake[last]

	// Zero the vacated slot so the FIFO doesn't pin the element for the GC.
	var zero Element
	f.outtake[last] = zero
	f.outtake = f.outtake[:last]

	return element, true
}

// Len returns the number of buffered elements.
func (f *FIFO[Element]) Len() int {
	return len(f.intake) + len(f.outtake)
}

// Empty reports whether the FIFO holds no elements.
func (f *FIFO[Element]) Empty() bool {
	return f.Len() == 0
}

// Reset discards all elements.
//
// The backing arrays are dropped in one step rather than drained, so the cost does not grow
// with the number of discarded elements.
func (f *FIFO[Element]) Reset() {
	f.intake = nil
	f.outtake = nil
}
