// Package matching holds the pure stages of the pipeline: chunking people,
// building the model prompt and validating the model response.
package matching

import "github.com/teammatch/matchflow/internal/model"

// DefaultChunkSize bounds how many people share one model call.
const DefaultChunkSize = 30

// Partition splits people into contiguous chunks of at most size entries,
// preserving order. The project set is deliberately never chunked; it is
// assumed to fit one model context alongside a single chunk of people.
func Partition(people []*model.Profile, size int) [][]*model.Profile {
	if size <= 0 {
		size = DefaultChunkSize
	}

	var chunks [][]*model.Profile
	for start := 0; start < len(people); start += size {
		end := start + size
		if end > len(people) {
			end = len(people)
		}
		chunks = append(chunks, people[start:end])
	}
	return chunks
}
