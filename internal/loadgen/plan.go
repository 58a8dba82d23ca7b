package loadgen

import "fmt"

// Plan splits total requests into batch sizes.
//
// The number of batches is ceil(total/concurrency); the per-batch size is
// then re-derived as ceil(total/batches), which spreads the remainder over
// all batches instead of leaving one short tail. Concurrency 5 and total 12
// give [4 4 4], not [5 5 2].
func Plan(total, concurrency int) ([]int, error) {
	if concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}
	if total <= 0 {
		return nil, nil
	}

	numBatches := ceilDiv(total, concurrency)
	perBatch := ceilDiv(total, numBatches)

	sizes := make([]int, 0, numBatches)
	for b := 0; b < numBatches; b++ {
		remaining := total - b*perBatch
		size := min(perBatch, remaining)
		if size <= 0 {
			break
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

// RequestID numbers a request for log correlation only. Ids in a short final
// batch can repeat earlier ones.
func RequestID(batch, batchSize, offset int) int {
	return batch*batchSize + offset + 1
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
