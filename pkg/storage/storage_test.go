package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root, "uploads")
	require.NoError(t, err)

	object, err := store.Save(context.Background(), "abc.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, "/uploads/abc.pdf", object.URL)

	content, err := os.ReadFile(filepath.Join(root, "abc.pdf"))
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(content))

	require.NoError(t, store.Delete(context.Background(), "abc.pdf"))
	_, err = os.Stat(filepath.Join(root, "abc.pdf"))
	require.True(t, os.IsNotExist(err))

	require.NoError(t, store.Delete(context.Background(), "abc.pdf"))
}

func TestLocalRejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	for _, key := range []string{"../evil.pdf", "a/b.pdf", "", ".hidden"} {
		_, err := store.Save(context.Background(), key, strings.NewReader("x"))
		require.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestLocalRefusesOverwrite(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "uploads")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "dup.pdf", strings.NewReader("one"))
	require.NoError(t, err)
	_, err = store.Save(context.Background(), "dup.pdf", strings.NewReader("two"))
	require.Error(t, err)
}
