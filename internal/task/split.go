package task

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Split partitions images into consecutive chunks of size elements.
// With shuffle set, one uniform permutation of the whole list is applied
// first, so task membership is randomized; otherwise the order is
// lexicographic. The final chunk holds the remainder. images is not modified.
func Split(images []string, size int, shuffle bool, rng *rand.Rand) ([][]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidTaskSize, size)
	}

	ordered := append([]string(nil), images...)
	if shuffle {
		if rng == nil {
			rng = rand.New(rand.NewSource(rand.Int63()))
		}
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	} else {
		sort.Strings(ordered)
	}

	chunks := make([][]string, 0, TaskCount(len(ordered), size))
	for start := 0; start < len(ordered); start += size {
		end := start + size
		if end > len(ordered) {
			end = len(ordered)
		}
		chunks = append(chunks, ordered[start:end:end])
	}
	return chunks, nil
}

// TaskCount returns ceil(total/size), or 0 for a non-positive size
func TaskCount(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Preview renders a human-readable summary of a split without writing files
func Preview(chunks [][]string, size int, shuffled bool) string {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}

	var b strings.Builder
	b.WriteString("Task split preview:\n")
	fmt.Fprintf(&b, "Total image count: %d\n", total)
	fmt.Fprintf(&b, "Image count per task: %d\n", size)
	fmt.Fprintf(&b, "Task file count: %d\n", len(chunks))
	shuffleText := "No"
	if shuffled {
		shuffleText = "Yes"
	}
	fmt.Fprintf(&b, "Shuffle: %s\n", shuffleText)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, chunk := range chunks {
		fmt.Fprintf(&b, "Task %d:\n", i+1)
		fmt.Fprintf(&b, "  Image count: %d\n", len(chunk))
		b.WriteString("  Image list:\n")
		for j, name := range chunk {
			fmt.Fprintf(&b, "    %2d. %s\n", j+1, name)
		}
		b.WriteString("\n")
	}
	return b.String()
}
