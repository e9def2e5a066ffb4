package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"craftsim.ai/internal/persistence/archive"
	"craftsim.ai/internal/persistence/indexdb"
	persistlog "craftsim.ai/internal/persistence/log"
	"craftsim.ai/internal/persistence/snapshot"
	"craftsim.ai/internal/protocol"
	"craftsim.ai/internal/sim/batch"
	"craftsim.ai/internal/sim/catalogs"
	"craftsim.ai/internal/sim/rotation"
	"craftsim.ai/internal/sim/tuning"
)

var errFailedRequests = errors.New("some requests failed")

func main() {
	_ = godotenv.Load()

	logger := log.New(os.Stderr, "[craftsim] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		logger.Printf("config: %v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, logger); err != nil {
		if errors.Is(err, errFailedRequests) {
			os.Exit(1)
		}
		logger.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg runConfig, stdin io.Reader, stdout io.Writer, logger *log.Logger) error {
	cats, err := catalogs.Load(cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}

	tp := cfg.TuningPath
	if tp == "" {
		tp = filepath.Join(cfg.ConfigDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || cfg.TuningPath != "" {
			return fmt.Errorf("load tuning: %w", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	reqs, err := readRequests(cfg.Files, stdin)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		logger.Printf("no requests")
		return nil
	}

	svc := rotation.New(cats, tune)

	workers := tune.Evaluation.Workers
	if cfg.Workers > 0 {
		workers = cfg.Workers
	}
	cacheSize := tune.Evaluation.CacheSize
	if cfg.CacheSize != 0 {
		cacheSize = cfg.CacheSize
	}
	runner, err := batch.New(svc, workers, cacheSize)
	if err != nil {
		return fmt.Errorf("batch runner: %w", err)
	}

	var runLog *persistlog.RunLogger
	if cfg.DataDir != "" {
		runLog, err = persistlog.NewRunLogger(cfg.DataDir, persistlog.Options{Period: cfg.LogPeriod})
		if err != nil {
			return fmt.Errorf("run log: %w", err)
		}
		defer runLog.Close()
	}

	var idx *indexdb.SQLiteIndex
	if cfg.IndexPath != "" {
		idx, err = indexdb.OpenSQLite(cfg.IndexPath)
		if err != nil {
			return fmt.Errorf("open index: %w", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(cfg.ConfigDir, cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
	}

	// Single runs go through the batch runner; Monte Carlo requests are
	// summarised one by one. Output keeps input order.
	var single []protocol.RotationRequest
	var singleAt []int
	for i, r := range reqs {
		if monteCarloRuns(cfg, r) == 0 {
			single = append(single, r)
			singleAt = append(singleAt, i)
		}
	}
	results := runner.Run(ctx, single)
	byIndex := make(map[int]batch.Result, len(results))
	for k, res := range results {
		byIndex[singleAt[k]] = res
	}

	enc := json.NewEncoder(stdout)
	var (
		failed  int
		entries []snapshot.EntryV1
	)
	for i, req := range reqs {
		entry := persistlog.RunEntry{Request: req}
		var out any

		if res, ok := byIndex[i]; ok {
			err := res.Err
			if err == nil && cfg.Validate {
				err = rotation.ValidateReport(res.Report)
			}
			if err != nil {
				msg := protocol.ErrorMsgFor(req.ID, err)
				entry.Error = &msg
				out = msg
			} else {
				rep := res.Report
				entry.Report = &rep
				out = rep
				idx.RecordReport(req, rep)
				if cfg.SnapshotPath != "" {
					pinned, err := svc.Pin(req, rep)
					if err != nil {
						logger.Printf("snapshot: pin %s: %v", req.ID, err)
					} else {
						entries = append(entries, snapshot.EntryV1{Request: pinned, Report: rep})
					}
				}
			}
		} else {
			sum, err := svc.MonteCarlo(ctx, req, monteCarloRuns(cfg, req))
			if err != nil {
				msg := protocol.ErrorMsgFor(req.ID, err)
				entry.Error = &msg
				out = msg
			} else {
				entry.Summary = &sum
				out = sum
			}
		}

		if entry.Error != nil {
			failed++
		}
		if runLog != nil {
			if err := runLog.WriteRun(entry); err != nil {
				logger.Printf("run log: %v", err)
			}
		}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	st := runner.Stats()
	logger.Printf("evaluated=%d cache_hits=%d failed=%d requests=%d", st.Evaluated, st.CacheHits, failed, len(reqs))

	if runLog != nil {
		if err := runLog.Flush(); err != nil {
			logger.Printf("run log: flush: %v", err)
		}
		ls := runLog.Stats()
		logger.Printf("run log: entries=%d files=%d bytes=%d", ls.Entries, ls.Files, ls.Bytes)
	}

	if cfg.SnapshotPath != "" {
		snap := snapshot.SnapshotV1{
			Header: snapshot.Header{
				CreatedUnix:    time.Now().Unix(),
				TuningDigest:   tune.Digest,
				RecipesDigest:  cats.Recipes.Digest,
				CraftersDigest: cats.Crafters.Digest,
			},
			Tuning:  tune,
			Entries: entries,
		}
		if err := snapshot.WriteSnapshot(cfg.SnapshotPath, snap); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		abs, _ := filepath.Abs(cfg.SnapshotPath)
		idx.RecordSnapshot(abs, snap)
		logger.Printf("snapshot: %s (%d entries)", cfg.SnapshotPath, len(entries))

		if cfg.DataDir != "" {
			archived, ok, err := archive.ArchiveSnapshot(cfg.DataDir, cfg.SnapshotPath, snap)
			switch {
			case err != nil:
				logger.Printf("archive snapshot: %v", err)
			case ok:
				logger.Printf("archived snapshot: %s", archived)
			}
		}
	}

	if idx != nil {
		if err := idx.Flush(ctx); err != nil {
			logger.Printf("index: flush: %v", err)
		}
		if s := idx.Stats(); s.DropEvaluationTotal > 0 || s.DropSnapshotTotal > 0 {
			logger.Printf("index: dropped evaluations=%d snapshots=%d", s.DropEvaluationTotal, s.DropSnapshotTotal)
		}
		if cfg.BestRecipe != "" {
			if err := printBest(ctx, idx, cfg.BestRecipe, cfg.BestLimit, stdout); err != nil {
				return fmt.Errorf("best: %w", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFailedRequests, failed, len(reqs))
	}
	return nil
}

// monteCarloRuns is the number of randomized runs to summarise, or 0 for a
// single report.
func monteCarloRuns(cfg runConfig, req protocol.RotationRequest) int {
	if req.Mode.Linear {
		return 0
	}
	if cfg.Runs > 1 {
		return cfg.Runs
	}
	if req.Mode.Runs > 1 {
		return req.Mode.Runs
	}
	return 0
}

// readRequests loads every rotation file; with no files it reads YAML (or
// JSON) from stdin.
func readRequests(files []string, stdin io.Reader) ([]protocol.RotationRequest, error) {
	if len(files) == 0 {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		reqs, err := rotation.ParseYAML(raw)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return reqs, nil
	}
	var out []protocol.RotationRequest
	for _, f := range files {
		reqs, err := rotation.LoadFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, reqs...)
	}
	return out, nil
}

func printBest(ctx context.Context, idx *indexdb.SQLiteIndex, recipeID string, limit int, w io.Writer) error {
	rows, err := idx.Best(ctx, recipeID, limit)
	if err != nil {
		return err
	}
	for i, r := range rows {
		seed := "-"
		if r.Seed != nil {
			seed = fmt.Sprint(*r.Seed)
		}
		fmt.Fprintf(w, "#%d %s crafter=%s quality=%d hq=%d%% steps=%d seed=%s code=%s %v\n",
			i+1, r.RequestID, r.CrafterID, r.Quality, r.HQPercent, r.Steps, seed, r.Code, r.Actions)
	}
	return nil
}
