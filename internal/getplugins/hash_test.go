package getplugins

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPackageHashV1(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plugin.hcl"), []byte("name = \"beep\"\nversion = \"1.0.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	hash, err := PackageHashV1(PackageLocalDir(dir))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.HasPrefix(hash, "h1:") {
		t.Errorf("wrong hash scheme %q; want h1: prefix", hash)
	}

	// The same content must hash identically, regardless of where it
	// lives on disk.
	other := t.TempDir()
	if err := os.WriteFile(filepath.Join(other, "plugin.hcl"), []byte("name = \"beep\"\nversion = \"1.0.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	otherHash, err := PackageHashV1(PackageLocalDir(other))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if hash != otherHash {
		t.Errorf("same content hashed differently: %q vs %q", hash, otherHash)
	}

	ok, err := PackageMatchesHash(PackageLocalDir(dir), hash)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !ok {
		t.Errorf("package does not match its own hash")
	}

	if _, err := PackageMatchesHash(PackageLocalDir(dir), "md5:abcdef"); err == nil {
		t.Errorf("unexpected success for unsupported hash scheme")
	}

	if _, err := PackageHashV1(PackageHTTPURL("https://example.com/pkg.zip")); err == nil {
		t.Errorf("unexpected success hashing a remote location")
	}
}
