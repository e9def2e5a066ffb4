package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"craftsim.ai/internal/persistence/snapshot"
	"craftsim.ai/internal/protocol"
	"craftsim.ai/internal/sim/catalogs"
	"craftsim.ai/internal/sim/craft/actions"
	"craftsim.ai/internal/sim/encoding"
	"craftsim.ai/internal/sim/tuning"
)

// SQLiteIndex is a queryable secondary index of evaluations. Writes go
// through a buffered queue drained by one goroutine; the JSONL run log
// stays the source of truth, so a full queue drops rows.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	// mu orders sends against close(ch); senders hold it shared.
	mu     sync.RWMutex
	closed atomic.Bool

	dropEvaluationTotal atomic.Uint64
	dropSnapshotTotal   atomic.Uint64
}

type Stats struct {
	QueueDepth          int
	QueueCapacity       int
	DropEvaluationTotal uint64
	DropSnapshotTotal   uint64
}

type reqKind int

const (
	reqEvaluation reqKind = iota + 1
	reqSnapshot
	reqFlush
)

type req struct {
	kind reqKind

	evaluation evaluationRow
	snapshot   snapshotRow
	done       chan struct{}
}

type evaluationRow struct {
	Digest     string
	RequestID  string
	RecipeID   string
	CrafterID  string
	Actions    string
	Code       string
	Linear     bool
	Seed       sql.NullInt64
	Steps      int
	Success    bool
	FailCause  string
	Progress   uint32
	Quality    uint32
	HQPercent  uint32
	CP         uint32
	RawJSON    string
	RecordedAt string
}

type snapshotRow struct {
	Path           string
	Entries        int
	CreatedUnix    int64
	TuningDigest   string
	RecipesDigest  string
	CraftersDigest string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS evaluations (
			digest TEXT NOT NULL,
			request_id TEXT NOT NULL,
			recipe_id TEXT NOT NULL,
			crafter_id TEXT NOT NULL,
			actions TEXT NOT NULL,
			rotation_code TEXT NOT NULL,
			linear INTEGER NOT NULL,
			seed INTEGER,
			steps INTEGER NOT NULL,
			success INTEGER NOT NULL,
			fail_cause TEXT NOT NULL,
			progress INTEGER NOT NULL,
			quality INTEGER NOT NULL,
			hq_percent INTEGER NOT NULL,
			cp INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (digest, request_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_recipe_quality ON evaluations(recipe_id, success, quality);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			path TEXT PRIMARY KEY,
			entries INTEGER NOT NULL,
			created_unix INTEGER NOT NULL,
			tuning_digest TEXT NOT NULL,
			recipes_digest TEXT NOT NULL,
			crafters_digest TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed.Store(true)
		close(s.ch)
		s.mu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:          len(s.ch),
		QueueCapacity:       cap(s.ch),
		DropEvaluationTotal: s.dropEvaluationTotal.Load(),
		DropSnapshotTotal:   s.dropSnapshotTotal.Load(),
	}
}

// RecordReport queues one evaluation. It never blocks.
func (s *SQLiteIndex) RecordReport(rq protocol.RotationRequest, rep protocol.ReportMsg) {
	if s == nil || s.closed.Load() {
		return
	}
	raw, _ := json.Marshal(rep)
	acts, _ := json.Marshal(rq.Actions)
	r := evaluationRow{
		Digest:     rep.Digest,
		RequestID:  rep.RequestID,
		RecipeID:   rep.RecipeID,
		CrafterID:  rep.CrafterID,
		Actions:    string(acts),
		Code:       rotationCode(rq.Actions),
		Linear:     rq.Mode.Linear,
		Steps:      len(rep.Steps),
		Success:    rep.Success,
		FailCause:  rep.FailCause,
		Progress:   rep.Progress,
		Quality:    rep.Quality,
		HQPercent:  rep.HQPercent,
		CP:         rep.CP,
		RawJSON:    string(raw),
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if rep.Seed != nil {
		r.Seed = sql.NullInt64{Int64: *rep.Seed, Valid: true}
	}
	s.enqueue(req{kind: reqEvaluation, evaluation: r}, &s.dropEvaluationTotal)
}

// enqueue sends r without blocking, counting it in drops when the queue is
// full. Requests arriving after Close are discarded.
func (s *SQLiteIndex) enqueue(r req, drops *atomic.Uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		drops.Add(1)
	}
}

func rotationCode(names []string) string {
	list, err := actions.ParseAll(names)
	if err != nil {
		return ""
	}
	return encoding.EncodeRotation(encoding.ActionIDsOf(list))
}

func (s *SQLiteIndex) RecordSnapshot(path string, snap snapshot.SnapshotV1) {
	if s == nil || s.closed.Load() {
		return
	}
	r := snapshotRow{
		Path:           path,
		Entries:        len(snap.Entries),
		CreatedUnix:    snap.Header.CreatedUnix,
		TuningDigest:   snap.Header.TuningDigest,
		RecipesDigest:  snap.Header.RecipesDigest,
		CraftersDigest: snap.Header.CraftersDigest,
	}
	s.enqueue(req{kind: reqSnapshot, snapshot: r}, &s.dropSnapshotTotal)
}

// Flush blocks until everything queued before it is committed.
func (s *SQLiteIndex) Flush(ctx context.Context) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	done := make(chan struct{})
	if err := s.sendFlush(ctx, done); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SQLiteIndex) sendFlush(ctx context.Context, done chan struct{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed.Load() {
		close(done)
		return nil
	}
	select {
	case s.ch <- req{kind: reqFlush, done: done}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SQLiteIndex) UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if cats != nil && configDir != "" {
		if b, err := os.ReadFile(filepath.Join(configDir, "recipes.json")); err == nil {
			rows = append(rows, kv{name: "recipes", digest: cats.Recipes.Digest, json: b})
		}
		if b, err := os.ReadFile(filepath.Join(configDir, "crafters.json")); err == nil {
			rows = append(rows, kv{name: "crafters", digest: cats.Crafters.Digest, json: b})
		}
	}

	// Tuning: store the values we actually apply (canonical JSON).
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// BestRow is one successful evaluation as stored in the index.
type BestRow struct {
	Digest    string
	RequestID string
	CrafterID string
	Actions   []string
	Code      string
	Seed      *int64
	Steps     int
	Quality   uint32
	HQPercent uint32
}

// Best returns the top successful evaluations of a recipe, highest quality
// first, then highest HQ chance, then fewest steps.
func (s *SQLiteIndex) Best(ctx context.Context, recipeID string, limit int) ([]BestRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `SELECT digest,request_id,crafter_id,actions,rotation_code,seed,steps,quality,hq_percent
		FROM evaluations
		WHERE recipe_id=? AND success=1
		ORDER BY quality DESC, hq_percent DESC, steps ASC, request_id ASC
		LIMIT ?`, recipeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BestRow
	for rows.Next() {
		var (
			r    BestRow
			acts string
			seed sql.NullInt64
		)
		if err := rows.Scan(&r.Digest, &r.RequestID, &r.CrafterID, &acts, &r.Code, &seed, &r.Steps, &r.Quality, &r.HQPercent); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(acts), &r.Actions); err != nil {
			return nil, fmt.Errorf("evaluation %s: actions: %w", r.RequestID, err)
		}
		if seed.Valid {
			v := seed.Int64
			r.Seed = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertEvaluation, _ := s.db.Prepare(`INSERT OR REPLACE INTO evaluations(digest,request_id,recipe_id,crafter_id,actions,rotation_code,linear,seed,steps,success,fail_cause,progress,quality,hq_percent,cp,raw_json,recorded_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	insertSnapshot, _ := s.db.Prepare(`INSERT OR REPLACE INTO snapshots(path,entries,created_unix,tuning_digest,recipes_digest,crafters_digest) VALUES(?,?,?,?,?,?)`)
	defer func() {
		if insertEvaluation != nil {
			_ = insertEvaluation.Close()
		}
		if insertSnapshot != nil {
			_ = insertSnapshot.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	flushIfNeeded := func() {
		if tx == nil {
			return
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	for r := range s.ch {
		if r.kind == reqFlush {
			commit()
			close(r.done)
			continue
		}
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqEvaluation:
			e := r.evaluation
			if insertEvaluation != nil {
				if _, err := tx.Stmt(insertEvaluation).Exec(
					e.Digest,
					e.RequestID,
					e.RecipeID,
					e.CrafterID,
					e.Actions,
					e.Code,
					e.Linear,
					e.Seed,
					e.Steps,
					e.Success,
					e.FailCause,
					int64(e.Progress),
					int64(e.Quality),
					int64(e.HQPercent),
					int64(e.CP),
					e.RawJSON,
					e.RecordedAt,
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}

		case reqSnapshot:
			sn := r.snapshot
			if insertSnapshot != nil {
				if _, err := tx.Stmt(insertSnapshot).Exec(
					sn.Path,
					sn.Entries,
					sn.CreatedUnix,
					sn.TuningDigest,
					sn.RecipesDigest,
					sn.CraftersDigest,
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}
		}
		flushIfNeeded()
	}

	commit()
}
