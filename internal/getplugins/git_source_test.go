package getplugins

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGitSourceClose(t *testing.T) {
	// Simulate the state after a successful clone: a staging root owned
	// by the source, with the working tree one level below.
	root := filepath.Join(t.TempDir(), "staging")
	repo := filepath.Join(root, "repo")
	if err := os.MkdirAll(repo, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(repo, "plugin.hcl"), []byte("name = \"beep\"\nversion = \"1.0.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewGitSource(GitSpec{URI: "https://example.com/beep.git"})
	s.tmpRoot = root
	s.workDir = repo

	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	// The whole staging root must be gone, not just the working tree.
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("staging root %s still present after Close", root)
	}

	// Closing again is a no-op.
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error on second close: %s", err)
	}
}

func TestGitSourceCloseBeforeClone(t *testing.T) {
	s := NewGitSource(GitSpec{URI: "https://example.com/beep.git"})
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestGitSourceGetterSrc(t *testing.T) {
	tests := []struct {
		name string
		spec GitSpec
		want string
	}{
		{
			name: "plain",
			spec: GitSpec{URI: "https://example.com/repo.git"},
			want: "git::https://example.com/repo.git",
		},
		{
			name: "with ref",
			spec: GitSpec{URI: "https://example.com/repo.git", Ref: "v1.2.0"},
			want: "git::https://example.com/repo.git?ref=v1.2.0",
		},
		{
			name: "with branch",
			spec: GitSpec{URI: "https://example.com/repo.git", Branch: "main"},
			want: "git::https://example.com/repo.git?ref=main",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := NewGitSource(test.spec)
			got, err := s.getterSrc()
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != test.want {
				t.Errorf("wrong source address\ngot:  %s\nwant: %s", got, test.want)
			}
		})
	}
}
