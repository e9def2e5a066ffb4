package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	persistlog "craftsim.ai/internal/persistence/log"
	"craftsim.ai/internal/persistence/snapshot"
	"craftsim.ai/internal/sim/catalogs"
	"craftsim.ai/internal/sim/rotation"
	"craftsim.ai/internal/sim/tuning"
)

func evaluatedBatch(t *testing.T) (*rotation.Service, []snapshot.EntryV1) {
	t.Helper()
	configDir := filepath.Join("..", "..", "configs")
	cats, err := catalogs.Load(configDir)
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	svc := rotation.New(cats, tuning.Defaults())
	reqs, err := rotation.LoadFile(filepath.Join(configDir, "rotations", "batch.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var entries []snapshot.EntryV1
	for _, r := range reqs {
		r.Mode.Seed = nil
		r.Mode.Linear = false
		rep, err := svc.Evaluate(context.Background(), r)
		if err != nil {
			t.Fatalf("%s: %v", r.ID, err)
		}
		entries = append(entries, snapshot.EntryV1{Request: r, Report: rep})
	}
	return svc, entries
}

func TestVerifySnapshotReplaysPinnedEntries(t *testing.T) {
	svc, entries := evaluatedBatch(t)
	for i := range entries {
		pinned, err := svc.Pin(entries[i].Request, entries[i].Report)
		if err != nil {
			t.Fatalf("pin: %v", err)
		}
		entries[i].Request = pinned
	}
	path := filepath.Join(t.TempDir(), "runs.snap.zst")
	if err := snapshot.WriteSnapshot(path, snapshot.SnapshotV1{Tuning: svc.Tuning(), Entries: entries}); err != nil {
		t.Fatalf("write: %v", err)
	}
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	n, err := verifySnapshot(context.Background(), snap)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if n != len(entries) {
		t.Fatalf("checked=%d want=%d", n, len(entries))
	}

	snap.Entries[1].Report.Digest = "0000"
	if _, err := verifySnapshot(context.Background(), snap); !errors.Is(err, errDigestMismatch) {
		t.Fatalf("expected digest mismatch, got %v", err)
	}
}

func TestVerifyRunFileUsesRecordedSeeds(t *testing.T) {
	svc, entries := evaluatedBatch(t)
	dir := t.TempDir()
	l, err := persistlog.NewRunLogger(dir, persistlog.Options{})
	if err != nil {
		t.Fatalf("run logger: %v", err)
	}
	for _, e := range entries {
		rep := e.Report
		if err := l.WriteRun(persistlog.RunEntry{Request: e.Request, Report: &rep}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.WriteRun(persistlog.RunEntry{Request: entries[0].Request}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := persistlog.ListFiles(filepath.Join(dir, "runs"), "runs")
	if err != nil || len(files) == 0 {
		t.Fatalf("files=%v err=%v", files, err)
	}
	var checked, skipped int
	for _, f := range files {
		c, s, err := verifyRunFile(context.Background(), svc, f)
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		checked += c
		skipped += s
	}
	if checked != len(entries) || skipped != 1 {
		t.Fatalf("checked=%d skipped=%d", checked, skipped)
	}
}
