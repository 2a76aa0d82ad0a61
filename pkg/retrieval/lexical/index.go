package lexical

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Okapi BM25 parameters.
const (
	k1 = 1.5
	b  = 0.75
)

// Document is one indexed corpus entry.
type Document struct {
	ID      string
	Content string
}

// ScoredDocument pairs a document with its raw BM25 score.
type ScoredDocument struct {
	Document Document
	Score    float64
}

// Index is an Okapi BM25 index over a fixed corpus. Built once (by the index
// CLI or at startup), read-only at serve time; Search is safe for concurrent
// use.
type Index struct {
	mu sync.RWMutex

	docs      []Document
	docTokens [][]string
	docFreq   map[string]int // term -> number of docs containing it
	docLen    []int
	avgDocLen float64
}

func NewIndex() *Index {
	return &Index{
		docFreq: make(map[string]int),
	}
}

// Build replaces the index contents with the given corpus.
func (idx *Index) Build(docs []Document) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.docs = docs
	idx.docTokens = make([][]string, len(docs))
	idx.docLen = make([]int, len(docs))
	idx.docFreq = make(map[string]int)

	totalLen := 0
	for i, doc := range docs {
		tokens := Tokenize(doc.Content)
		idx.docTokens[i] = tokens
		idx.docLen[i] = len(tokens)
		totalLen += len(tokens)

		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			idx.docFreq[t]++
		}
	}

	if len(docs) > 0 {
		idx.avgDocLen = float64(totalLen) / float64(len(docs))
	}
}

// Size returns the number of indexed documents.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Search scores every document against the query and returns the topN with a
// positive score, best first.
func (idx *Index) Search(query string, topN int) []ScoredDocument {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.docs) == 0 || topN <= 0 {
		return nil
	}

	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	n := float64(len(idx.docs))
	scored := make([]ScoredDocument, 0, len(idx.docs))

	for i, doc := range idx.docs {
		tf := make(map[string]int, len(idx.docTokens[i]))
		for _, t := range idx.docTokens[i] {
			tf[t]++
		}

		var score float64
		for _, q := range queryTokens {
			freq := tf[q]
			if freq == 0 {
				continue
			}
			df := float64(idx.docFreq[q])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			norm := float64(freq) * (k1 + 1) /
				(float64(freq) + k1*(1-b+b*float64(idx.docLen[i])/idx.avgDocLen))
			score += idf * norm
		}

		if score > 0 {
			scored = append(scored, ScoredDocument{Document: doc, Score: score})
		}
	}

	sort.Slice(scored, func(x, y int) bool {
		return scored[x].Score > scored[y].Score
	})
	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}

type snapshot struct {
	Docs []Document
}

// Save writes a gob snapshot of the corpus. The index itself is rebuilt on
// load; only the documents need to survive.
func (idx *Index) Save(path string) error {
	idx.mu.RLock()
	docs := make([]Document, len(idx.docs))
	copy(docs, idx.docs)
	idx.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index snapshot: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(snapshot{Docs: docs}); err != nil {
		return fmt.Errorf("encode index snapshot: %w", err)
	}
	return nil
}

// Load reads a gob snapshot and rebuilds the index from it.
func (idx *Index) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open index snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("decode index snapshot: %w", err)
	}

	idx.Build(snap.Docs)
	return nil
}
