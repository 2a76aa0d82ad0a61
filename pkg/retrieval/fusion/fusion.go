package fusion

import (
	"sort"
	"strings"
)

// NoRelevantResults is the sentinel handed to the generator when every
// source came back empty or below threshold. It is never an empty string;
// the prompt template always receives some context block.
const NoRelevantResults = "No highly relevant documents were found."

// Document is one retrieved snippet with its raw source score.
type Document struct {
	Text  string
	Score float64
}

// Source is the output of one retrieval backend for a single query.
// Fixed sources (relational rows) contribute 1.0 per document regardless of
// raw score; the others are max-normalized within the source.
type Source struct {
	Name   string
	Weight float64
	Fixed  bool
	Docs   []Document
}

type fusedDoc struct {
	text  string
	score float64
}

// Fuse merges per-source results into a single context string. Per source:
// normalize by the source max, multiply by the source weight, drop documents
// whose final score is below minScore. The merged set is ordered by final
// weighted score descending and newline-joined.
func Fuse(sources []Source, minScore float64) string {
	var merged []fusedDoc

	for _, src := range sources {
		if len(src.Docs) == 0 {
			continue
		}

		var maxScore float64
		for _, d := range src.Docs {
			if d.Score > maxScore {
				maxScore = d.Score
			}
		}

		for _, d := range src.Docs {
			var normalized float64
			switch {
			case src.Fixed:
				normalized = 1.0
			case maxScore > 0:
				normalized = d.Score / maxScore
			}

			final := normalized * src.Weight
			if final < minScore {
				continue
			}
			if strings.TrimSpace(d.Text) == "" {
				continue
			}
			merged = append(merged, fusedDoc{text: d.Text, score: final})
		}
	}

	if len(merged) == 0 {
		return NoRelevantResults
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].score > merged[j].score
	})

	parts := make([]string, len(merged))
	for i, d := range merged {
		parts[i] = d.text
	}
	return strings.Join(parts, "\n")
}
