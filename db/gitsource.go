package db

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/memory"
)

// LoadGitScripts clones url into memory and returns every .sql file of the
// checked out tree. An empty ref uses the remote's default branch. The clone
// stops when ctx is cancelled.
func LoadGitScripts(ctx context.Context, url, ref string) ([]Script, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	options := &git.CloneOptions{URL: url}
	if ref != "" {
		options.ReferenceName = plumbing.NewBranchReferenceName(ref)
		options.SingleBranch = true
	}

	repo, err := git.CloneContext(ctx, memory.NewStorage(), memfs.New(), options)
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", url, err)
	}

	scripts, err := ScriptsFromRepository(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return scripts, nil
}

// ScriptsFromRepository reads the .sql files of the HEAD commit, sorted by
// path.
func ScriptsFromRepository(repo *git.Repository) ([]Script, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, err
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	var scripts []Script
	err = tree.Files().ForEach(func(file *object.File) error {
		if !strings.EqualFold(path.Ext(file.Name), ".sql") {
			return nil
		}
		contents, err := file.Contents()
		if err != nil {
			return fmt.Errorf("%s: %w", file.Name, err)
		}
		scripts = append(scripts, Script{Name: file.Name, Text: contents})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Name < scripts[j].Name
	})
	return scripts, nil
}
