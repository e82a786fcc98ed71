package concurrent_test

import (
	"testing"

	"lintang/gridrouter/pkg/concurrent"
	"lintang/gridrouter/pkg/datastructure"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	jobs := 20
	workers := concurrent.NewWorkerPool[concurrent.RouteJobItem, int](4, jobs)
	for i := 0; i < jobs; i++ {
		workers.AddJob(concurrent.RouteJobItem{
			ID:    i,
			Start: datastructure.NewGridCoordinate(0, 0),
			End:   datastructure.NewGridCoordinate(i, i),
		})
	}
	workers.Close()

	workers.Start(func(job concurrent.RouteJobItem) int {
		return job.End.Row + job.End.Col
	})
	workers.Wait()

	sum := 0
	count := 0
	for res := range workers.CollectResults() {
		sum += res
		count++
	}
	assert.Equal(t, jobs, count)
	assert.Equal(t, 2*(jobs-1)*jobs/2, sum)
}

func TestWorkerPoolAtLeastOneWorker(t *testing.T) {
	workers := concurrent.NewWorkerPool[concurrent.SaveKVJobItem, string](0, 2)
	workers.AddJob(concurrent.SaveKVJobItem{Key: "a"})
	workers.AddJob(concurrent.SaveKVJobItem{Key: "b"})
	workers.Close()
	workers.Start(func(job concurrent.SaveKVJobItem) string { return job.Key })
	workers.Wait()

	got := []string{}
	for res := range workers.CollectResults() {
		got = append(got, res)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, got)
}
