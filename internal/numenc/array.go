package numenc

// Scalar is the element set of NDArray.
type Scalar interface {
	~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Array is a rectangular array stored flat in row-major order.
type Array interface {
	Shape() []int
	Size() int
	// At returns the element at flat index i.
	At(i int) any
}

// NDArray is the stock Array implementation.
type NDArray[T Scalar] struct {
	Dims []int
	Data []T
}

// NewArray wraps data with the given shape. It does not validate the shape;
// Normalize does.
func NewArray[T Scalar](data []T, dims ...int) NDArray[T] {
	return NDArray[T]{Dims: dims, Data: data}
}

func (a NDArray[T]) Shape() []int { return a.Dims }
func (a NDArray[T]) Size() int    { return len(a.Data) }
func (a NDArray[T]) At(i int) any { return a.Data[i] }
