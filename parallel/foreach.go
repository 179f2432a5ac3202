// Package parallel contains parallel ForEach() and thread count helpers.
package parallel

import "sync"

// ForEach executes body for every chunk [start, end) of the range [0, length),
// with at most limit chunks running at once. Chunks are contiguous and at
// most chunk long. The call returns when all chunks are done.
func ForEach(length, chunk, limit int, body func(start, end int)) {
	if limit <= 0 {
		limit = 1 // Default to 1 if limit is zero or negative
	}
	if chunk <= 0 {
		chunk = 1
	}
	if length <= 0 {
		return // No iterations to perform
	}

	sem := make(chan struct{}, limit) // Semaphore with buffer size 'limit'
	var wg sync.WaitGroup

	for start := 0; start < length; start += chunk {
		end := start + chunk
		if end > length {
			end = length
		}
		wg.Add(1)
		sem <- struct{}{} // Acquire semaphore
		go func(start, end int) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore after function exits

			body(start, end)
		}(start, end)
	}

	wg.Wait() // Wait for all goroutines to finish
}
