package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nickyhof/MyDB/db"
)

// loadScripts reads every source in order. Local directories contribute all
// of their .sql files; a non-empty gitURL adds the .sql files of that
// repository after the other sources.
func loadScripts(ctx context.Context, sources []string, gitURL, ref string, s3 *db.S3Config) ([]db.Script, error) {
	var scripts []db.Script

	for _, source := range sources {
		if info, err := os.Stat(source); err == nil && info.IsDir() {
			paths, err := sqlFiles(source)
			if err != nil {
				return nil, err
			}
			for _, path := range paths {
				script, err := db.ReadSource(ctx, path, s3)
				if err != nil {
					return nil, err
				}
				scripts = append(scripts, script)
			}
			continue
		}

		script, err := db.ReadSource(ctx, source, s3)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}

	if gitURL != "" {
		gitScripts, err := db.LoadGitScripts(ctx, gitURL, ref)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, gitScripts...)
	}

	if len(scripts) == 0 {
		return nil, fmt.Errorf("no SQL scripts found")
	}
	return scripts, nil
}

// sqlFiles lists the .sql files under dir, sorted.
func sqlFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isSQLFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func isSQLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sql")
}
