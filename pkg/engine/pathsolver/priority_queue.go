package pathsolver

import (
	"errors"
)

var (
	ErrHeapEmpty   = errors.New("heap is empty")
	ErrKeyNotFound = errors.New("key not found in the heap")
	ErrInvalidRank = errors.New("invalid index or new value")
)

type PriorityQueueNode[T comparable] struct {
	Rank float64
	Item T
	seq  uint64
}

// MinHeap binary heap priorityqueue. pos menyimpan index tiap item di heap, jadi lookup &
// decreaseKey O(1)/O(logN). Rank yang sama diurutkan berdasarkan urutan insert (FIFO).
type MinHeap[T comparable] struct {
	heap    []PriorityQueueNode[T]
	pos     map[T]int
	nextSeq uint64
}

func NewMinHeap[T comparable]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
		pos:  make(map[T]int),
	}
}

// parent get index dari parent
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

// leftChild get index dari left child
func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

// rightChild get index dari right child
func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

func (h *MinHeap[T]) less(i, j int) bool {
	if h.heap[i].Rank != h.heap[j].Rank {
		return h.heap[i].Rank < h.heap[j].Rank
	}
	return h.heap[i].seq < h.heap[j].seq
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i].Item] = i
	h.pos[h.heap[j].Item] = j
}

// heapifyUp mempertahankan heap property. check apakah parent dari index lebih besar kalau iya swap. O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown mempertahankan heap property. check apakah salah satu children dari index lebih kecil kalau iya swap. O(logN) tree height.
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)

		if left < len(h.heap) && h.less(left, smallest) {
			smallest = left
		}
		if right < len(h.heap) && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T]) isEmpty() bool {
	return len(h.heap) == 0
}

// Size ukuran heap
func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

// GetMin mendapatkan nilai minimum dari min-heap (index 0)
func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, ErrHeapEmpty
	}
	return h.heap[0], nil
}

// Insert item baru. Item yang sudah ada di heap harus pakai DecreaseKey.
func (h *MinHeap[T]) Insert(key PriorityQueueNode[T]) {
	key.seq = h.nextSeq
	h.nextSeq++
	h.heap = append(h.heap, key)
	index := h.Size() - 1
	h.pos[key.Item] = index
	h.heapifyUp(index)
}

// ExtractMin ambil nilai minimum dari min-heap (index 0) & pop dari heap. O(logN)
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, ErrHeapEmpty
	}
	root := h.heap[0]
	last := h.Size() - 1
	h.heap[0] = h.heap[last]
	h.pos[h.heap[0].Item] = 0
	h.heap = h.heap[:last]
	delete(h.pos, root.Item)
	if !h.isEmpty() {
		h.heapifyDown(0)
	}
	return root, nil
}

// DecreaseKey update Rank dari item yang sudah ada di heap. Item dianggap di-insert ulang,
// jadi urutan tie-break nya ikut pindah ke belakang. O(logN).
func (h *MinHeap[T]) DecreaseKey(item PriorityQueueNode[T]) error {
	index, ok := h.pos[item.Item]
	if !ok {
		return ErrKeyNotFound
	}
	if item.Rank > h.heap[index].Rank {
		return ErrInvalidRank
	}
	item.seq = h.nextSeq
	h.nextSeq++
	h.heap[index] = item
	h.heapifyUp(index)
	h.heapifyDown(h.pos[item.Item])
	return nil
}

func (h *MinHeap[T]) Contains(item T) bool {
	_, ok := h.pos[item]
	return ok
}

func (h *MinHeap[T]) GetItem(item T) (PriorityQueueNode[T], bool) {
	index, ok := h.pos[item]
	if !ok {
		return PriorityQueueNode[T]{}, false
	}
	return h.heap[index], true
}

// Items copy semua item di heap (urutan heap, bukan urutan rank).
func (h *MinHeap[T]) Items() []T {
	items := make([]T, len(h.heap))
	for i, n := range h.heap {
		items[i] = n.Item
	}
	return items
}

func (h *MinHeap[T]) Clear() {
	h.heap = h.heap[:0]
	h.pos = make(map[T]int)
	h.nextSeq = 0
}
