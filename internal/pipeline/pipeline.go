// Package pipeline reads, normalizes, and consolidates the payment sheets,
// and aggregates the consolidated table for consumers.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/normalize"
	"github.com/theirongolddev/paytrend/internal/source"
)

// Source is one input sheet and the mapping that applies to it.
type Source struct {
	Path    string
	Mapping normalize.Mapping
}

// SourceStats describes what happened to one source's rows.
type SourceStats struct {
	Path          string
	Platform      model.Platform
	Rows          int // rows read
	MissingPeriod int // rows whose date could not be parsed
	BeforeFloor   int // rows dated before the floor
	Kept          int
}

// Result holds the output of a pipeline run.
type Result struct {
	Records    []model.Record
	Sources    []SourceStats
	Duplicates []Key
}

// ProgressFunc is called after each source is normalized.
// current is the number of sources processed so far, total is the source count.
type ProgressFunc func(current, total int)

// Pipeline turns a set of source sheets into the consolidated table.
type Pipeline struct {
	Sources  []Source
	Floor    model.Period
	Progress ProgressFunc

	// Read loads a source table; defaults to source.ReadFile.
	Read func(path string) (model.RawTable, error)
}

type sourceResult struct {
	records []model.Record
	err     error
}

// Run normalizes every source in parallel and consolidates the results.
// Any unreadable file or missing mandatory column aborts the run; the error
// reported is the one from the first failing source in configuration order.
func (p *Pipeline) Run() (*Result, error) {
	if len(p.Sources) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}
	read := p.Read
	if read == nil {
		read = source.ReadFile
	}
	floor := p.Floor
	if floor.IsZero() {
		floor = DefaultFloor
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(p.Sources) {
		numWorkers = len(p.Sources)
	}

	work := make(chan int, len(p.Sources))
	results := make([]sourceResult, len(p.Sources))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range p.Sources {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = normalizeSource(read, p.Sources[idx])
				n := processed.Add(1)
				if p.Progress != nil {
					p.Progress(int(n), len(p.Sources))
				}
			}
		}()
	}
	wg.Wait()

	tables := make([][]model.Record, len(results))
	stats := make([]SourceStats, len(results))
	for i, sr := range results {
		if sr.err != nil {
			return nil, sr.err
		}
		tables[i] = sr.records
		stats[i] = countRows(p.Sources[i], sr.records, floor)
	}

	records := Consolidate(floor, tables...)
	return &Result{
		Records:    records,
		Sources:    stats,
		Duplicates: DuplicateKeys(records),
	}, nil
}

func normalizeSource(read func(string) (model.RawTable, error), src Source) sourceResult {
	table, err := read(src.Path)
	if err != nil {
		return sourceResult{err: err}
	}
	if table.Source == "" {
		table.Source = src.Path
	}
	recs, err := normalize.Normalize(table, src.Mapping)
	if err != nil {
		return sourceResult{err: fmt.Errorf("normalizing %s: %w", src.Mapping.Platform, err)}
	}
	return sourceResult{records: recs}
}

func countRows(src Source, recs []model.Record, floor model.Period) SourceStats {
	st := SourceStats{Path: src.Path, Platform: src.Mapping.Platform, Rows: len(recs)}
	for _, r := range recs {
		switch {
		case r.Period.IsZero():
			st.MissingPeriod++
		case r.Period.Before(floor):
			st.BeforeFloor++
		default:
			st.Kept++
		}
	}
	return st
}
