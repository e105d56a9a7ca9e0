package getplugins

import (
	"fmt"
	"net/url"
	"strings"

	svchost "github.com/hashicorp/terraform-svchost"
)

// SourceSpec describes one provenance that plugins can be installed from.
//
// SourceSpec is a closed interface: the only implementations are
// RegistrySpec and GitSpec. Construct values only through NewRegistrySpec
// and NewGitSpec so that invalid descriptor shapes are unrepresentable.
type SourceSpec interface {
	sourceSpec()

	// ForDisplay returns a UI-oriented description of the source.
	ForDisplay() string
}

// RegistrySpec describes one or more plugin registry remotes, tried in
// the order given.
type RegistrySpec struct {
	Remotes []string
}

var _ SourceSpec = RegistrySpec{}

// NewRegistrySpec validates and normalizes the given registry remote URLs
// and returns a RegistrySpec containing them.
//
// Each remote must be an http or https URL whose hostname is valid per the
// service host normalization rules.
func NewRegistrySpec(remotes ...string) (RegistrySpec, error) {
	if len(remotes) == 0 {
		return RegistrySpec{}, fmt.Errorf("a registry source requires at least one remote URL")
	}
	norm := make([]string, len(remotes))
	for i, remote := range remotes {
		u, err := url.Parse(remote)
		if err != nil {
			return RegistrySpec{}, fmt.Errorf("invalid registry remote %q: %s", remote, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return RegistrySpec{}, fmt.Errorf("invalid registry remote %q: must use http or https scheme", remote)
		}
		host, err := svchost.ForComparison(u.Hostname())
		if err != nil {
			return RegistrySpec{}, fmt.Errorf("invalid registry remote %q: %s", remote, err)
		}
		// Rebuild with the normalized hostname so that two spellings of
		// the same remote compare equal in SourceList.
		port := u.Port()
		u.Host = string(host)
		if port != "" {
			u.Host = fmt.Sprintf("%s:%s", host, port)
		}
		norm[i] = strings.TrimSuffix(u.String(), "/")
	}
	return RegistrySpec{Remotes: norm}, nil
}

func (s RegistrySpec) sourceSpec() {}

func (s RegistrySpec) ForDisplay() string {
	return fmt.Sprintf("registry %s", strings.Join(s.Remotes, ", "))
}

// GitSpec describes a git repository to install a plugin from, optionally
// pinned to a named ref (a tag or commit) or a branch.
//
// Ref and Branch are mutually exclusive; NewGitSpec refuses to construct a
// GitSpec with both set.
type GitSpec struct {
	URI    string
	Ref    string
	Branch string
}

var _ SourceSpec = GitSpec{}

// NewGitSpec validates the given repository URI and optional ref/branch
// and returns the corresponding GitSpec.
func NewGitSpec(uri, ref, branch string) (GitSpec, error) {
	if uri == "" {
		return GitSpec{}, fmt.Errorf("a git source requires a repository URI")
	}
	if ref != "" && branch != "" {
		return GitSpec{}, fmt.Errorf("cannot use both a ref and a branch for git repository %q", uri)
	}
	return GitSpec{
		URI:    uri,
		Ref:    ref,
		Branch: branch,
	}, nil
}

func (s GitSpec) sourceSpec() {}

func (s GitSpec) ForDisplay() string {
	switch {
	case s.Ref != "":
		return fmt.Sprintf("git %s (at %s)", s.URI, s.Ref)
	case s.Branch != "":
		return fmt.Sprintf("git %s (branch %s)", s.URI, s.Branch)
	default:
		return fmt.Sprintf("git %s", s.URI)
	}
}
