// Package filter enumerates the rename candidates of a run.
// Discovery walks the directory once and materializes every eligible regular file
// before anything is renamed, so the rest of the run works on a fixed snapshot and
// never observes files the run itself produced.
package filter

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"rxrename/internal/config"
	"rxrename/internal/errors"
)

// Candidate is a regular file captured at enumeration time.
// Path is absolute and clean. Mode is the type bits reported by the walk, which for
// a candidate are always those of a regular file. Dotfiles are candidates like any
// other file unless the configuration asks to skip hidden entries.
type Candidate struct {
	Path string
	Mode fs.FileMode
}

// FileFilter decides whether an entry stays in the snapshot. rel is the path
// relative to the discovery root and d is the entry as reported by the walk,
// without following symlinks. Filters are composed with AND semantics: an entry
// is kept only when every filter returns true.
type FileFilter func(rel string, d fs.DirEntry) bool

// FileDiscovery walks the configured directory and applies the filter chain.
// Directories are never candidates themselves; recursion, hidden-entry skipping
// and exclude globs decide which of them are entered.
type FileDiscovery struct {
	config  *config.Config
	logger  *slog.Logger
	filters []FileFilter
}

// NewFileDiscovery creates a FileDiscovery with the filters the configuration asks for.
func NewFileDiscovery(cfg *config.Config, logger *slog.Logger) *FileDiscovery {
	return &FileDiscovery{
		config:  cfg,
		logger:  logger,
		filters: buildFilters(cfg),
	}
}

// Discover returns the snapshot of candidates, in lexical walk order.
// Only direct children are considered unless the configuration is recursive.
// An unreadable root is fatal; unreadable entries below it are logged and skipped.
func (fd *FileDiscovery) Discover(ctx context.Context) ([]Candidate, error) {
	root := fd.config.Directory
	var files []Candidate

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return errors.NewFilesystemAccessError(root, "cannot read directory", err)
			}
			fd.logger.Warn("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}

		if d.IsDir() {
			if fd.shouldDescend(rel, d) {
				return nil
			}
			fd.logger.Debug("not descending", "path", rel)
			return filepath.SkipDir
		}

		if !fd.shouldProcessFile(rel, d) {
			return nil
		}

		files = append(files, Candidate{Path: path, Mode: d.Type()})
		return nil
	})

	if err != nil {
		var fsErr *errors.FilesystemAccessError
		if stderrors.As(err, &fsErr) || ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.WrapFileError(root, err)
	}

	fd.logger.Debug("enumerated candidates", "directory", root, "count", len(files))
	return files, nil
}

func (fd *FileDiscovery) shouldDescend(rel string, d fs.DirEntry) bool {
	if !fd.config.Recursive {
		return false
	}
	if fd.config.SkipHidden && isHidden(d.Name()) {
		return false
	}
	return !matchesAny(fd.config.Exclude, rel, d.Name())
}

func (fd *FileDiscovery) shouldProcessFile(rel string, d fs.DirEntry) bool {
	for _, filter := range fd.filters {
		if !filter(rel, d) {
			return false
		}
	}
	return true
}

func buildFilters(cfg *config.Config) []FileFilter {
	filters := []FileFilter{regularFileFilter()}

	if cfg.SkipHidden {
		filters = append(filters, hiddenFilter())
	}

	if len(cfg.Exclude) > 0 {
		filters = append(filters, excludeFilter(cfg.Exclude))
	}

	return filters
}

// regularFileFilter keeps regular files only. WalkDir reports entry types without
// following links, so symlinks, devices, sockets and pipes are all rejected here.
func regularFileFilter() FileFilter {
	return func(_ string, d fs.DirEntry) bool {
		return d.Type().IsRegular()
	}
}

func hiddenFilter() FileFilter {
	return func(_ string, d fs.DirEntry) bool {
		return !isHidden(d.Name())
	}
}

func excludeFilter(patterns []string) FileFilter {
	return func(rel string, d fs.DirEntry) bool {
		return !matchesAny(patterns, rel, d.Name())
	}
}

// matchesAny checks both the base name and the root-relative path, so "*.bak"
// and "build/*" both work.
func matchesAny(patterns []string, rel, name string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(filepath.ToSlash(pattern), rel); err == nil && matched {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
