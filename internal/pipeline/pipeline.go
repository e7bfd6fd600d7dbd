// Package pipeline orchestrates the per-case flow: resolve text (local
// wins, otherwise fetch), segment into paragraphs, flag outcome zones,
// mine breach phrases. Per-case fetch and parse failures are collected,
// not fatal; load-time validation happens earlier, in the loader.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/courtfirst/breachminer/internal/detect"
	"github.com/courtfirst/breachminer/internal/fetch"
	"github.com/courtfirst/breachminer/internal/lexicon"
	"github.com/courtfirst/breachminer/internal/mine"
	"github.com/courtfirst/breachminer/internal/model"
	"github.com/courtfirst/breachminer/internal/segment"
	"github.com/courtfirst/breachminer/internal/worker"
)

// Fetcher retrieves judgment bodies. It is an interface here so tests
// can prove that cases carrying local text never touch the network.
type Fetcher interface {
	FetchCase(ctx context.Context, c model.Case) (*fetch.Result, error)
}

// Pipeline processes cases end to end.
type Pipeline struct {
	fetcher  Fetcher
	htmlText *segment.HTMLText
	detector *detect.Detector
	miner    *mine.Miner
}

// New assembles a pipeline from the lexicon and a fetcher.
func New(lex *lexicon.Lexicon, fetcher Fetcher) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		htmlText: segment.NewHTMLText(),
		detector: detect.New(lex),
		miner:    mine.New(lex),
	}
}

// CaseResult is the outcome of processing one case.
type CaseResult struct {
	Case       model.Case
	Candidates []model.BreachCandidate
	Paragraphs int
	InZone     int
	Log        model.FetchLogEntry
	Err        error // *model.FetchError or *model.ParseError, nil on success
}

// GetError implements worker.Result.
func (r *CaseResult) GetError() error { return r.Err }

// ProcessCase runs one case through resolve → segment → detect → mine.
func (p *Pipeline) ProcessCase(ctx context.Context, c model.Case) *CaseResult {
	result := &CaseResult{Case: c}

	text, ok := p.resolveText(ctx, c, result)
	if !ok {
		return result
	}

	paragraphs := segment.Split(c.CaseID, text)
	if len(paragraphs) == 0 {
		result.Err = &model.ParseError{CaseID: c.CaseID, Err: fmt.Errorf("no paragraphs in resolved text")}
		return result
	}
	result.Paragraphs = len(paragraphs)

	flags := p.detector.Flag(paragraphs)
	for i, para := range paragraphs {
		if !flags[i] {
			continue
		}
		result.InZone++
		result.Candidates = append(result.Candidates, p.miner.MineParagraph(c, para)...)
	}

	return result
}

// resolveText returns the case's judgment text. Local text always wins;
// the fetcher is only consulted when none was supplied.
func (p *Pipeline) resolveText(ctx context.Context, c model.Case, result *CaseResult) (string, bool) {
	if c.HasLocalText() {
		result.Log = model.FetchLogEntry{CaseID: c.CaseID, Status: "local_text"}
		return c.LocalText, true
	}

	res, err := p.fetcher.FetchCase(ctx, c)
	if err != nil {
		result.Err = err
		result.Log = model.FetchLogEntry{
			CaseID:     c.CaseID,
			Status:     "error",
			RequestURL: c.SourceURL,
			Error:      err.Error(),
		}
		return "", false
	}

	result.Log = model.FetchLogEntry{
		CaseID:     c.CaseID,
		Status:     "ok",
		RequestURL: c.SourceURL,
		FinalURL:   res.FinalURL,
		HTTPStatus: res.StatusCode,
		Bytes:      len(res.Body),
		Cached:     res.Cached,
	}

	text, err := p.htmlText.Extract(res.Body, res.FinalURL)
	if err != nil {
		result.Err = &model.ParseError{CaseID: c.CaseID, Err: err}
		result.Log.Status = "error"
		result.Log.Error = result.Err.Error()
		return "", false
	}

	return text, true
}

// CaseFailure records one case excluded from the output.
type CaseFailure struct {
	CaseID string
	Err    error
}

// RunResult aggregates a whole run. Candidates and the fetch log follow
// input case order regardless of worker count, so output is
// deterministic.
type RunResult struct {
	Candidates []model.BreachCandidate
	FetchLog   []model.FetchLogEntry
	Failures   []CaseFailure
	Cases      int
}

// Run processes all cases, sequentially by default or on a bounded
// worker pool when workers > 1. progress, if non-nil, is called once
// per finished case in completion order.
func (p *Pipeline) Run(ctx context.Context, cases []model.Case, workers int, progress func(*CaseResult)) *RunResult {
	results := make([]*CaseResult, 0, len(cases))

	if workers <= 1 {
		for _, c := range cases {
			r := p.ProcessCase(ctx, c)
			if progress != nil {
				progress(r)
			}
			results = append(results, r)
		}
	} else {
		pool := worker.NewPool(workers)
		pool.Start()
		go func() {
			for _, c := range cases {
				pool.Submit(&caseJob{pipeline: p, c: c, progress: progress})
			}
			pool.Close()
		}()
		for _, res := range pool.Collect() {
			results = append(results, res.(*CaseResult))
		}

		// Restore input order: pool completion order is arbitrary.
		order := make(map[string]int, len(cases))
		for i, c := range cases {
			order[c.CaseID] = i
		}
		sort.Slice(results, func(a, b int) bool {
			return order[results[a].Case.CaseID] < order[results[b].Case.CaseID]
		})
	}

	run := &RunResult{Cases: len(cases)}
	for _, r := range results {
		run.FetchLog = append(run.FetchLog, r.Log)
		if r.Err != nil {
			run.Failures = append(run.Failures, CaseFailure{CaseID: r.Case.CaseID, Err: r.Err})
			continue
		}
		run.Candidates = append(run.Candidates, r.Candidates...)
	}

	return run
}

// caseJob adapts a case to the worker pool.
type caseJob struct {
	pipeline *Pipeline
	c        model.Case
	progress func(*CaseResult)
}

func (j *caseJob) Execute(ctx context.Context) worker.Result {
	r := j.pipeline.ProcessCase(ctx, j.c)
	if j.progress != nil {
		j.progress(r)
	}
	return r
}
