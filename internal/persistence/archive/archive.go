package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"craftsim.ai/internal/persistence/snapshot"
)

// GenerationMeta describes the catalogs and tuning a group of archived
// snapshots was evaluated against.
type GenerationMeta struct {
	Generation     string   `json:"generation"`
	TuningDigest   string   `json:"tuning_digest,omitempty"`
	RecipesDigest  string   `json:"recipes_digest"`
	CraftersDigest string   `json:"crafters_digest"`
	Snapshots      []string `json:"snapshots"`
	UpdatedAt      string   `json:"updated_at"`
}

// Generation names the catalog generation of a snapshot, or "" when the
// snapshot carries no catalog digests (fully inline requests).
func Generation(h snapshot.Header) string {
	if h.RecipesDigest == "" || h.CraftersDigest == "" {
		return ""
	}
	tune := h.TuningDigest
	if tune == "" {
		tune = "defaults"
	}
	return fmt.Sprintf("%s-%s-%s", short(h.RecipesDigest), short(h.CraftersDigest), short(tune))
}

// ArchiveSnapshot copies a snapshot into `dataDir/archives/<generation>/`
// and records it in the generation's meta.json.
// It returns (archivedPath, archived=true) when the snapshot has a generation.
func ArchiveSnapshot(dataDir, snapshotPath string, snap snapshot.SnapshotV1) (archivedPath string, archived bool, err error) {
	gen := Generation(snap.Header)
	if gen == "" {
		return "", false, nil
	}

	archiveDir := filepath.Join(dataDir, "archives", gen)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", false, err
	}

	name := filepath.Base(snapshotPath)
	if snap.Header.CreatedUnix > 0 {
		name = fmt.Sprintf("%d-%s", snap.Header.CreatedUnix, name)
	}
	dst := filepath.Join(archiveDir, name)
	if err := copyFile(snapshotPath, dst); err != nil {
		return "", false, err
	}

	metaPath := filepath.Join(archiveDir, "meta.json")
	meta, err := ReadMeta(metaPath)
	if err != nil && !os.IsNotExist(err) {
		return "", false, err
	}
	meta.Generation = gen
	meta.TuningDigest = snap.Header.TuningDigest
	meta.RecipesDigest = snap.Header.RecipesDigest
	meta.CraftersDigest = snap.Header.CraftersDigest
	if !contains(meta.Snapshots, name) {
		meta.Snapshots = append(meta.Snapshots, name)
	}
	meta.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", false, err
	}
	if err := os.WriteFile(metaPath, b, 0o644); err != nil {
		return "", false, err
	}
	return dst, true, nil
}

func ReadMeta(path string) (GenerationMeta, error) {
	var m GenerationMeta
	b, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return m, nil
}

func short(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
