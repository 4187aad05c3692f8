package cst

const arenaChunk = 512

// Arena stores values in fixed-size chunks and hands out 1-based indices;
// 0 means "none". Pointers returned by Get stay valid while the arena grows.
type Arena[T any] struct {
	chunks [][]T
	n      uint32
}

// NewArena creates an arena with the given capacity hint.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		chunks: make([][]T, 0, capHint/arenaChunk+1),
	}
}

// Возвращает индекс нового элемента (1-based).
func (a *Arena[T]) Allocate(value T) uint32 {
	if a.n%arenaChunk == 0 {
		a.chunks = append(a.chunks, make([]T, 0, arenaChunk))
	}
	last := len(a.chunks) - 1
	a.chunks[last] = append(a.chunks[last], value)
	a.n++
	return a.n
}

func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || index > a.n {
		return nil
	}
	i := index - 1
	return &a.chunks[i/arenaChunk][i%arenaChunk]
}

func (a *Arena[T]) Len() uint32 {
	return a.n
}
