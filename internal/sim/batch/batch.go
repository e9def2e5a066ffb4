// Package batch evaluates many rotation requests on a fixed pool of workers.
package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"craftsim.ai/internal/protocol"
)

type Evaluator interface {
	Evaluate(ctx context.Context, req protocol.RotationRequest) (protocol.ReportMsg, error)
}

type Result struct {
	Index   int
	Request protocol.RotationRequest
	Report  protocol.ReportMsg
	Err     error
	Cached  bool
}

type Stats struct {
	Evaluated   uint64
	CacheHits   uint64
	Failed      uint64
	CacheLength int
}

// Runner fans requests out to workers. Deterministic requests are memoised
// by RequestDigest; cached reports are shared and must not be mutated.
type Runner struct {
	eval    Evaluator
	workers int
	cache   *lru.Cache[string, protocol.ReportMsg]

	evaluated atomic.Uint64
	cacheHits atomic.Uint64
	failed    atomic.Uint64
}

// New returns a runner. cacheSize <= 0 disables the cache.
func New(eval Evaluator, workers, cacheSize int) (*Runner, error) {
	if workers <= 0 {
		workers = 1
	}
	r := &Runner{eval: eval, workers: workers}
	if cacheSize > 0 {
		c, err := lru.New[string, protocol.ReportMsg](cacheSize)
		if err != nil {
			return nil, err
		}
		r.cache = c
	}
	return r, nil
}

// Run evaluates reqs and returns one result per request, in input order.
// Requests not started before ctx is done fail with ctx's error.
func (r *Runner) Run(ctx context.Context, reqs []protocol.RotationRequest) []Result {
	out := make([]Result, len(reqs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(r.workers, len(reqs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = r.one(ctx, i, reqs[i])
			}
		}()
	}
	for i := range reqs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

func (r *Runner) one(ctx context.Context, i int, req protocol.RotationRequest) Result {
	res := Result{Index: i, Request: req}
	if err := ctx.Err(); err != nil {
		res.Err = err
		r.failed.Add(1)
		return res
	}

	var key string
	if r.cache != nil && req.Deterministic() {
		key = RequestDigest(req)
		if rep, ok := r.cache.Get(key); ok {
			r.cacheHits.Add(1)
			res.Report = withRequestID(rep, req.ID)
			res.Cached = true
			return res
		}
	}

	rep, err := r.eval.Evaluate(ctx, req)
	r.evaluated.Add(1)
	if err != nil {
		r.failed.Add(1)
		res.Err = err
		return res
	}
	if key != "" {
		r.cache.Add(key, rep)
	}
	res.Report = rep
	return res
}

func (r *Runner) Stats() Stats {
	s := Stats{
		Evaluated: r.evaluated.Load(),
		CacheHits: r.cacheHits.Load(),
		Failed:    r.failed.Load(),
	}
	if r.cache != nil {
		s.CacheLength = r.cache.Len()
	}
	return s
}

// RequestDigest is a hex sha256 over the request with its id cleared, so
// identical rotations under different ids share a cache entry.
func RequestDigest(req protocol.RotationRequest) string {
	req.ID = ""
	b, err := json.Marshal(req)
	if err != nil {
		// Plain data; Marshal cannot fail.
		panic(err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func withRequestID(rep protocol.ReportMsg, id string) protocol.ReportMsg {
	rep.RequestID = id
	return rep
}
