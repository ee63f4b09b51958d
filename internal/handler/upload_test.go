package handler

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeUploadPathAccepts(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"file.txt", "x9GqLp2aBc_report.pdf", "no-extension"} {
		got, err := safeUploadPath(root, name)
		if err != nil {
			t.Errorf("%q rejected: %v", name, err)
			continue
		}
		if filepath.Dir(got) != root {
			t.Errorf("%q resolved outside root: %q", name, got)
		}
	}
}

func TestSafeUploadPathRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	cases := []string{
		"",
		"..",
		"../secret",
		"../../etc/passwd",
		"a/../../b",
		"/etc/passwd",
		"sub/dir.txt",
		"..\\windows",
	}
	for _, name := range cases {
		if got, err := safeUploadPath(root, name); err == nil {
			t.Errorf("%q accepted as %q, want rejection", name, got)
		}
	}
}

func TestSafeUploadPathStaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	got, err := safeUploadPath(root, "ok.txt")
	if err != nil {
		t.Fatalf("safeUploadPath: %v", err)
	}
	if !strings.HasPrefix(got, root+string(filepath.Separator)) {
		t.Errorf("resolved path %q not under root %q", got, root)
	}
}
