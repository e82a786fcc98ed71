package concurrent

import "lintang/gridrouter/pkg/datastructure"

// RouteJobItem satu pasangan start-end untuk batch solving.
type RouteJobItem struct {
	ID    int
	Start datastructure.GridCoordinate
	End   datastructure.GridCoordinate
}

// SaveKVJobItem satu key-value yang sudah di-encode untuk disimpan ke kv db.
type SaveKVJobItem struct {
	Key   string
	Value []byte
}

type JobI interface {
	RouteJobItem | SaveKVJobItem
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G
