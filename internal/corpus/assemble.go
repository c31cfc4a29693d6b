package corpus

import (
	"context"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/kk-code-lab/seedforge/internal/index"
)

// Report summarizes an assembly or status run.
type Report struct {
	StartedAt   time.Time            `json:"started_at"`
	FinishedAt  time.Time            `json:"finished_at"`
	Mode        string               `json:"mode"`
	Root        string               `json:"root"`
	Files       int                  `json:"files"`
	TotalBytes  int64                `json:"total_bytes"`
	Categories  []index.CategoryStat `json:"categories"`
	Errors      int                  `json:"errors"`
	ErrorSample []string             `json:"error_sample,omitempty"`
}

// Assemble writes every entry under the layout root. A failed entry aborts
// only itself: its partial output is discarded, siblings still proceed, and
// the failure is tallied in the report. When store is non-nil each written
// entry is recorded in the index.
func Assemble(l Layout, entries []Entry, store *index.Store) (*Report, error) {
	report := &Report{Mode: "generate", Root: l.Root, StartedAt: time.Now().UTC()}
	for _, dir := range l.Dirs() {
		if err := os.MkdirAll(filepath.Join(l.Root, dir), 0o755); err != nil {
			return nil, err
		}
	}

	addError := func(err error) {
		report.Errors++
		if len(report.ErrorSample) < 5 {
			report.ErrorSample = append(report.ErrorSample, err.Error())
		}
	}

	perCategory := make(map[string]*index.CategoryStat)
	for _, e := range entries {
		path := filepath.Join(l.Root, e.RelPath)
		if err := writeFileAtomic(path, e.Data); err != nil {
			addError(fmt.Errorf("%s: %w", e.RelPath, err))
			continue
		}
		if store != nil {
			sum := blake3.Sum256(e.Data)
			err := store.RecordEntry(context.Background(), filepath.ToSlash(e.RelPath),
				filepath.ToSlash(e.Category), int64(len(e.Data)), hex.EncodeToString(sum[:]))
			if err != nil {
				addError(fmt.Errorf("index %s: %w", e.RelPath, err))
			}
		}
		report.Files++
		report.TotalBytes += int64(len(e.Data))
		cat := filepath.ToSlash(e.Category)
		st, ok := perCategory[cat]
		if !ok {
			st = &index.CategoryStat{Category: cat}
			perCategory[cat] = st
		}
		st.Files++
		st.Bytes += int64(len(e.Data))
	}

	report.Categories = sortedStats(perCategory)
	report.FinishedAt = time.Now().UTC()
	return report, nil
}

// Status walks an existing corpus root and counts files and bytes per
// category directory. Index database files are not corpus entries and are
// skipped.
func Status(l Layout) (*Report, error) {
	report := &Report{Mode: "status", Root: l.Root, StartedAt: time.Now().UTC()}
	perCategory := make(map[string]*index.CategoryStat)
	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), "index.db") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			return err
		}
		cat := filepath.ToSlash(filepath.Dir(rel))
		st, ok := perCategory[cat]
		if !ok {
			st = &index.CategoryStat{Category: cat}
			perCategory[cat] = st
		}
		st.Files++
		st.Bytes += info.Size()
		report.Files++
		report.TotalBytes += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	report.Categories = sortedStats(perCategory)
	report.FinishedAt = time.Now().UTC()
	return report, nil
}

func sortedStats(perCategory map[string]*index.CategoryStat) []index.CategoryStat {
	out := make([]index.CategoryStat, 0, len(perCategory))
	for _, st := range perCategory {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so a failed write never leaves a partial file that
// could pass for an intentional truncated fixture.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".seedforge-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmp.Name())
		if werr != nil {
			return werr
		}
		return cerr
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
