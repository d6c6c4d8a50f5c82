package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScriptRepository builds an in-memory repository with one commit
// containing files.
func newScriptRepository(t *testing.T, files map[string]string) *git.Repository {
	t.Helper()

	repo, err := git.Init(memory.NewStorage(), git.WithWorkTree(memfs.New()))
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for path, contents := range files {
		require.NoError(t, util.WriteFile(wt.Filesystem, path, []byte(contents), 0644))
	}
	_, err = wt.Add(".")
	require.NoError(t, err)

	_, err = wt.Commit("add scripts", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)

	return repo
}

func TestScriptsFromRepository(t *testing.T) {
	repo := newScriptRepository(t, map[string]string{
		"schema/users.sql":  "CREATE TABLE USERS (ID NUMBER)",
		"schema/orders.SQL": "CREATE TABLE ORDERS (ID NUMBER)",
		"README.md":         "# scripts",
		"init.sql":          "CREATE TABLE INIT",
	})

	scripts, err := ScriptsFromRepository(repo)
	require.NoError(t, err)
	require.Len(t, scripts, 3)

	assert.Equal(t, "init.sql", scripts[0].Name)
	assert.Equal(t, "schema/orders.SQL", scripts[1].Name)
	assert.Equal(t, "schema/users.sql", scripts[2].Name)
	assert.Equal(t, "CREATE TABLE USERS (ID NUMBER)", scripts[2].Text)

	results, err := CompileAll(context.Background(), scripts, 2)
	require.NoError(t, err)
	for _, compiled := range results {
		assert.True(t, compiled.OK(), compiled.Error)
	}
}

func TestScriptsFromEmptyRepository(t *testing.T) {
	repo, err := git.Init(memory.NewStorage(), git.WithWorkTree(memfs.New()))
	require.NoError(t, err)

	_, err = ScriptsFromRepository(repo)
	assert.Error(t, err, "a repository without commits has no HEAD")
}

func TestLoadGitScriptsMissingRepository(t *testing.T) {
	_, err := LoadGitScripts(context.Background(), filepath.Join(t.TempDir(), "nope"), "")
	assert.ErrorContains(t, err, "failed to clone")
}

func TestLoadGitScriptsFromLocalRepository(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "init.sql"), []byte("CREATE TABLE INIT (ID NUMBER)"), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("init.sql")
	require.NoError(t, err)
	_, err = wt.Commit("add init", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	scripts, err := LoadGitScripts(ctx, dir, "")
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, "init.sql", scripts[0].Name)
	assert.Equal(t, "CREATE TABLE INIT (ID NUMBER)", scripts[0].Text)
}

func TestLoadGitScriptsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadGitScripts(ctx, "https://example.invalid/repo.git", "main")
	assert.ErrorIs(t, err, context.Canceled)
}
