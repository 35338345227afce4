package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"veneer/internal/trace"
)

// Options configures CheckDir.
type Options struct {
	Jobs   int        // 0 means GOMAXPROCS
	Cache  *DiskCache // nil disables caching
	Tracer trace.Tracer
}

// listIRFiles returns the sorted list of *.vir files under dir. A
// plain file path is returned as-is.
func listIRFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".vir") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Deterministic order.
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every *.vir file under dir in parallel. Results come
// back in path order. Per-file verdicts are served from the cache when
// the file content hash matches a prior run.
func CheckDir(ctx context.Context, dir string, opts Options) ([]CheckResult, error) {
	files, err := listIRFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Indices are unique per goroutine, so no mutex is needed.
	results := make([]CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			data, err := os.ReadFile(path)
			if err != nil {
				results[i] = CheckResult{Path: path, Err: err.Error()}
				return nil
			}

			key := hashBytes(data)
			if res, ok := opts.Cache.Lookup(key, path); ok {
				results[i] = res
				return nil
			}

			res := checkSource(path, string(data), opts.Tracer)
			results[i] = res
			if err := opts.Cache.Store(key, res); err != nil {
				trace.Point(opts.Tracer, trace.ScopeGraph, "cache-store-failed", err.Error())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
