package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return ids
}

func TestChunkIDs_SplitsAtBatchSize(t *testing.T) {
	chunks := chunkIDs(seq(1200), 500)
	assert.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 500)
	assert.Len(t, chunks[1], 500)
	assert.Len(t, chunks[2], 200)
	assert.Equal(t, int64(1), chunks[0][0])
	assert.Equal(t, int64(1200), chunks[2][199])
}

func TestChunkIDs_ExactMultiple(t *testing.T) {
	chunks := chunkIDs(seq(1000), 500)
	assert.Len(t, chunks, 2)
	assert.Len(t, chunks[1], 500)
}

func TestChunkIDs_SmallerThanBatch(t *testing.T) {
	chunks := chunkIDs(seq(3), 500)
	assert.Len(t, chunks, 1)
	assert.Equal(t, []int64{1, 2, 3}, chunks[0])
}

func TestChunkIDs_Empty(t *testing.T) {
	assert.Nil(t, chunkIDs(nil, 500))
}

func TestChunkIDs_NonPositiveSize(t *testing.T) {
	chunks := chunkIDs(seq(7), 0)
	assert.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 7)
}
