package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

func TestLoad_MissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "todos.json"))
	items, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSaveThenLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "todos.json"))
	want := []model.Item{
		{Title: "Buy milk"},
		{Title: "Ship release", Done: true},
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "todos.json"))
	require.NoError(t, s.Save(nil))

	b, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestLoad_Corrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(p, []byte("{nope"), 0o644))

	_, err := New(p).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json unmarshal")
}

func TestRelativePathUsesWorkingDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	s := New("todos.json")
	require.NoError(t, s.Save([]model.Item{{Title: "a"}}))
	_, err := os.Stat(filepath.Join(dir, "todos.json"))
	assert.NoError(t, err)
}

func TestEmptyPath(t *testing.T) {
	_, err := New("").Load()
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
