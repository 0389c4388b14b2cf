package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// FileReport is the outcome of checking one file in a directory walk.
type FileReport struct {
	Path   string
	Result *CheckResult
}

// CheckDir finds every .hulk file under dir and checks them concurrently.
// Reports come back sorted by path regardless of completion order.
func CheckDir(ctx context.Context, dir string, maxDiagnostics int) ([]FileReport, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".hulk") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var mu sync.Mutex
	reports := make([]FileReport, 0, len(paths))
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := Check(path, maxDiagnostics)
			if err != nil {
				return err
			}
			mu.Lock()
			reports = append(reports, FileReport{Path: path, Result: result})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })
	return reports, nil
}
