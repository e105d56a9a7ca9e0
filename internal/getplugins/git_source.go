package getplugins

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"net/url"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"

	"github.com/hashicorp/pluginstall/internal/addrs"
)

// GitSource is a Source that clones a single git repository and treats its
// working tree as one candidate plugin package, identified by the
// plugin.hcl manifest in the repository root.
//
// A GitSource lives for at most one resolution pass. The clone happens
// lazily on first query and is reused for subsequent queries; Close
// removes the working tree again.
type GitSource struct {
	spec GitSpec

	// tmpRoot is the temporary directory owned by this source, and
	// workDir is the local clone of the repository one level below it.
	// Both are empty until the first query forces a fetch.
	tmpRoot string
	workDir string

	// plugin and version are the manifest identity read from the clone.
	plugin  addrs.Plugin
	version Version
}

var _ Source = (*GitSource)(nil)

// NewGitSource creates and returns a new source for the repository
// described by the given spec.
func NewGitSource(spec GitSpec) *GitSource {
	return &GitSource{
		spec: spec,
	}
}

// AvailableVersions returns the single version declared by the manifest of
// the cloned repository, or ErrPluginNotFound if the repository's manifest
// declares a different plugin name than the one requested.
func (s *GitSource) AvailableVersions(ctx context.Context, plugin addrs.Plugin) (VersionList, error) {
	if err := s.ensureCloned(ctx, plugin); err != nil {
		return nil, err
	}
	if s.plugin != plugin {
		log.Printf("[DEBUG] getplugins: repository %s provides %s, not %s", s.spec.URI, s.plugin, plugin)
		return nil, ErrPluginNotFound{Plugin: plugin, Sources: []string{s.ForDisplay()}}
	}
	return VersionList{s.version}, nil
}

// PackageMeta returns the cloned working tree as a local-directory package
// for the given plugin version.
func (s *GitSource) PackageMeta(ctx context.Context, plugin addrs.Plugin, version Version) (PackageMeta, error) {
	if err := s.ensureCloned(ctx, plugin); err != nil {
		return PackageMeta{}, err
	}
	if s.plugin != plugin {
		return PackageMeta{}, ErrPluginNotFound{Plugin: plugin, Sources: []string{s.ForDisplay()}}
	}
	if !s.version.Equal(version) {
		return PackageMeta{}, ErrNoSuitableVersion{
			Plugin:      plugin,
			Constraints: MustParseConstraints("= " + version.String()),
		}
	}
	return PackageMeta{
		Plugin:   plugin,
		Version:  s.version,
		Filename: packageFilename(plugin, s.version),
		Location: PackageLocalDir(s.workDir),
	}, nil
}

// ForDisplay returns a UI-oriented description of this source.
func (s *GitSource) ForDisplay() string {
	return s.spec.ForDisplay()
}

// Close removes the local clone, if one was created. The source must not
// be queried again afterwards.
func (s *GitSource) Close() error {
	if s.tmpRoot == "" {
		return nil
	}
	dir := s.tmpRoot
	s.tmpRoot = ""
	s.workDir = ""
	return os.RemoveAll(dir)
}

func (s *GitSource) ensureCloned(ctx context.Context, plugin addrs.Plugin) error {
	if s.workDir != "" {
		return nil
	}

	src, err := s.getterSrc()
	if err != nil {
		return ErrQueryFailed{Plugin: plugin, Wrapped: err}
	}

	workDir, err := ioutil.TempDir("", "pluginstall-git")
	if err != nil {
		return ErrQueryFailed{Plugin: plugin, Wrapped: err}
	}
	// go-getter wants to create the destination itself.
	dst := filepath.Join(workDir, "repo")

	log.Printf("[DEBUG] getplugins: cloning %s into %s", s.spec.URI, dst)
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Mode: getter.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		os.RemoveAll(workDir)
		return ErrQueryFailed{Plugin: plugin, Wrapped: fmt.Errorf("failed to clone %q: %s", s.spec.URI, err)}
	}

	manifestPlugin, manifestVersion, err := LoadManifest(dst)
	if err != nil {
		os.RemoveAll(workDir)
		return ErrQueryFailed{Plugin: plugin, Wrapped: err}
	}

	s.tmpRoot = workDir
	s.workDir = dst
	s.plugin = manifestPlugin
	s.version = manifestVersion
	return nil
}

// getterSrc builds the go-getter source string for the repository,
// carrying the ref or branch as the "ref" query argument that the git
// getter understands.
func (s *GitSource) getterSrc() (string, error) {
	u, err := url.Parse(s.spec.URI)
	if err != nil {
		return "", fmt.Errorf("invalid git repository URI %q: %s", s.spec.URI, err)
	}
	rev := s.spec.Ref
	if rev == "" {
		rev = s.spec.Branch
	}
	if rev != "" {
		q := u.Query()
		q.Set("ref", rev)
		u.RawQuery = q.Encode()
	}
	return "git::" + u.String(), nil
}
