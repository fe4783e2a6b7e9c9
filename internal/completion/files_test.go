package completion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinylittleshell/gshcomplete/internal/shape"
)

// newFileTree creates:
//
//	root/
//	  file1.txt
//	  file2.txt
//	  .hidden
//	  folder1/inside.txt
//	  folder1/deep/nested.txt
//	  folder2/other.txt
func newFileTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{
		"file1.txt",
		"file2.txt",
		".hidden",
		"folder1/inside.txt",
		"folder1/deep/nested.txt",
		"folder2/other.txt",
	} {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("test"), 0644))
	}
	return root
}

func TestGetFileCompletionsRelative(t *testing.T) {
	root := newFileTree(t)

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{".hidden", "file1.txt", "file2.txt", "folder1/", "folder2/"}},
		{"file", []string{"file1.txt", "file2.txt"}},
		{"folder", []string{"folder1/", "folder2/"}},
		{"file1.txt", []string{"file1.txt"}},
		{"folder1/", []string{"folder1/deep/", "folder1/inside.txt"}},
		{"folder1/i", []string{"folder1/inside.txt"}},
		{"folder1/deep/n", []string{"folder1/deep/nested.txt"}},
		{"nonexistent", []string{}},
		{"./", []string{"./.hidden", "./file1.txt", "./file2.txt", "./folder1/", "./folder2/"}},
		{"./file", []string{"./file1.txt", "./file2.txt"}},
		{"./folder1/d", []string{"./folder1/deep/"}},
		{"./folder1/deep/", []string{"./folder1/deep/nested.txt"}},
		{"./.h", []string{"./.hidden"}},
		{"./nonexistent", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, GetFileCompletions(tt.prefix, root))
		})
	}
}

func TestGetFileCompletionsParent(t *testing.T) {
	root := newFileTree(t)
	cwd := filepath.Join(root, "folder1")

	assert.Equal(t,
		[]string{"../.hidden", "../file1.txt", "../file2.txt", "../folder1/", "../folder2/"},
		GetFileCompletions("../", cwd))
	assert.Equal(t, []string{"../folder2/other.txt"}, GetFileCompletions("../folder2/o", cwd))
}

func TestGetFileCompletionsAbsolute(t *testing.T) {
	root := newFileTree(t)

	got := GetFileCompletions(root+"/folder1/", "/some/other/dir")
	assert.Equal(t, []string{root + "/folder1/deep/", root + "/folder1/inside.txt"}, got)
	for _, r := range got {
		assert.True(t, filepath.IsAbs(r), r)
	}
}

func TestGetFileCompletionsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "notes_xyz.txt"), []byte("x"), 0644))

	got := GetFileCompletions("~/notes_x", "/some/other/dir")
	assert.Equal(t, []string{"~/notes_xyz.txt"}, got)
	for _, r := range got {
		assert.NotContains(t, r, home)
	}
}

func TestGetFileCompletionsFailures(t *testing.T) {
	root := newFileTree(t)

	t.Run("missing directory", func(t *testing.T) {
		assert.Empty(t, GetFileCompletions("nonexistent/path/", root))
		assert.Empty(t, GetFileCompletions("/nonexistent/path/", root))
	})

	t.Run("empty directory", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0755))
		assert.Empty(t, GetFileCompletions("empty/", root))
	})

	t.Run("unreadable directory", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root can read any directory")
		}
		dir := filepath.Join(root, "noread")
		require.NoError(t, os.Mkdir(dir, 0000))
		t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

		assert.Empty(t, GetFileCompletions(dir+"/", root))
	})
}

func TestGetFileCompletionsDirectorySuffix(t *testing.T) {
	root := newFileTree(t)
	require.NoError(t, os.Symlink(filepath.Join(root, "folder2"), filepath.Join(root, "link")))

	for _, r := range GetFileCompletions("./", root) {
		info, err := os.Stat(filepath.Join(root, strings.TrimPrefix(r, "./")))
		require.NoError(t, err, r)
		assert.Equal(t, info.IsDir(), strings.HasSuffix(r, "/"), r)
	}
	assert.Contains(t, GetFileCompletions("l", root), "link/")
}

func TestFilePathCompletion(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "my file.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "myfile.txt"), []byte("x"), 0644))
	span := shape.Span{Start: 4, End: 7}

	want := []PathMatch{
		{Span: span, Text: `"my file.txt"`},
		{Span: span, Text: "myfile.txt"},
	}
	assert.Equal(t, want, FilePathCompletion(span, "my", root))
	assert.Equal(t, want, FilePathCompletion(span, `"my`, root))
	assert.Equal(t, want[:1], FilePathCompletion(span, `'my f'`, root))
	assert.Empty(t, FilePathCompletion(span, "zz", root))
}
