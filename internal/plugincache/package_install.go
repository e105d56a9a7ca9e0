package plugincache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"

	"github.com/hashicorp/pluginstall/internal/getplugins"
	"github.com/hashicorp/pluginstall/internal/httpclient"
)

// We borrow the "unpack a zip file into a target directory" logic from
// go-getter, even though we're not otherwise using go-getter here.
// (Registry packages always come as zip archives with a known layout, so
// we don't need go-getter's full source-address flexibility.)
var unzip = getter.ZipDecompressor{}

func installFromHTTPURL(ctx context.Context, meta getplugins.PackageMeta, targetDir string) error {
	url := meta.Location.String()

	// When we're installing from an HTTP URL we expect the URL to refer
	// to a zip file. We'll fetch that into a temporary file here and then
	// delegate to installFromLocalArchive below to actually extract it.
	httpClient := httpclient.New()
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("invalid plugin download request: %s", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unsuccessful request to %s: %s", url, resp.Status)
	}

	f, err := ioutil.TempFile("", "pluginstall-package")
	if err != nil {
		return fmt.Errorf("failed to open temporary file to download from %s", url)
	}
	defer f.Close()
	defer os.Remove(f.Name())

	// We'll borrow go-getter's "cancelable copy" implementation here so
	// that the download can potentially be interrupted partway through.
	hash := sha256.New()
	n, err := getter.Copy(ctx, io.MultiWriter(f, hash), resp.Body)
	if err == nil && n < resp.ContentLength {
		err = fmt.Errorf("incorrect response size: expected %d bytes, but got %d bytes", resp.ContentLength, n)
	}
	if err != nil {
		return err
	}

	if meta.SHA256Sum != "" {
		if got := hex.EncodeToString(hash.Sum(nil)); got != meta.SHA256Sum {
			return fmt.Errorf("downloaded archive does not match the expected checksum (got %s, want %s)", got, meta.SHA256Sum)
		}
	}

	// If we managed to download successfully then we can now delegate to
	// installFromLocalArchive for extraction.
	return installFromLocalArchive(ctx, f.Name(), targetDir)
}

func installFromLocalArchive(ctx context.Context, filename string, targetDir string) error {
	return unzip.Decompress(targetDir, filename, true, 0022)
}

// installFromLocalDir copies the package contents from the given source
// directory, which is expected to already be unpacked (for example, a git
// working tree produced during resolution).
func installFromLocalDir(ctx context.Context, sourceDir string, targetDir string) error {
	absNew, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("failed to make target path %s absolute: %s", targetDir, err)
	}
	absCurrent, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to make source path %s absolute: %s", sourceDir, err)
	}

	// Before we do anything else, make sure the source isn't inside the
	// target, or we'd recurse into ourselves while copying.
	if absCurrent == absNew {
		return fmt.Errorf("cannot install existing directory %s to itself", targetDir)
	}

	// A fresh install replaces whatever was already at the target path.
	if err := os.RemoveAll(absNew); err != nil {
		return fmt.Errorf("failed to remove existing %s: %s", absNew, err)
	}
	if err := os.MkdirAll(filepath.Dir(absNew), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %s", filepath.Dir(absNew), err)
	}

	return copyDir(absNew, absCurrent)
}

// copyDir recursively copies the src directory to dst. Symlinks inside the
// package are skipped: a package directory is expected to be
// self-contained.
func copyDir(dst, src string) error {
	src, err := filepath.EvalSymlinks(src)
	if err != nil {
		return err
	}

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == src {
			return nil
		}

		// The "path" has the src prefixed to it. We need to join our
		// destination with the path without the src on it.
		dstPath := filepath.Join(dst, path[len(src)+1:])

		if info.IsDir() {
			return os.MkdirAll(dstPath, 0755)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		srcF, err := os.Open(path)
		if err != nil {
			return err
		}
		defer srcF.Close()

		dstF, err := os.OpenFile(dstPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, info.Mode().Perm())
		if err != nil {
			return err
		}

		if _, err := io.Copy(dstF, srcF); err != nil {
			dstF.Close()
			return err
		}

		return dstF.Close()
	}

	return filepath.Walk(src, walkFn)
}
