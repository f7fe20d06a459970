package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sectionview/internal/watch"
)

func write(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestReportsDebouncedChange(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	write(t, model, "{}")

	w, err := watch.New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(model))

	for i := 0; i < 5; i++ {
		write(t, model, `{"positions": []}`)
	}

	select {
	case got := <-w.Changes():
		abs, _ := filepath.Abs(model)
		assert.Equal(t, abs, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-w.Changes():
		t.Fatalf("burst reported twice: %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	write(t, model, "{}")

	w, err := watch.New(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(model))

	write(t, filepath.Join(dir, "other.json"), "{}")

	select {
	case got := <-w.Changes():
		t.Fatalf("unexpected change %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestAddMissingDirectory(t *testing.T) {
	w, err := watch.New(0, nil)
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "missing", "model.json")))
}

func TestCloseTwice(t *testing.T) {
	w, err := watch.New(0, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
