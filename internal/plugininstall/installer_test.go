package plugininstall

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/cli"

	"github.com/hashicorp/pluginstall/internal/addrs"
	"github.com/hashicorp/pluginstall/internal/getplugins"
	"github.com/hashicorp/pluginstall/internal/settings"
)

// spyResolver is a Resolver that records the requests it receives and
// returns a canned response, so tests can assert both that resolution
// happened (or didn't) and what state was ambient while it ran.
type spyResolver struct {
	calls []spyResolverCall

	// observe, if set, is called at resolution time so tests can capture
	// ambient state such as the settings values in effect.
	observe func()

	ret []*getplugins.ResolvedPlugin
	err error
}

type spyResolverCall struct {
	Reqs    getplugins.Requirements
	Sources *getplugins.SourceList
}

func (r *spyResolver) ResolvePlugins(ctx context.Context, reqs getplugins.Requirements, sources *getplugins.SourceList) ([]*getplugins.ResolvedPlugin, error) {
	r.calls = append(r.calls, spyResolverCall{Reqs: reqs, Sources: sources})
	if r.observe != nil {
		r.observe()
	}
	return r.ret, r.err
}

// fakeTarget is a PackageInstaller that records the packages it is asked
// to install, optionally failing for one particular plugin.
type fakeTarget struct {
	installed []string
	failFor   string
}

func (t *fakeTarget) InstallPackage(ctx context.Context, meta getplugins.PackageMeta) (string, error) {
	if t.failFor != "" && meta.Plugin.Name == t.failFor {
		return "", fmt.Errorf("install of %s failed for testing", meta.Plugin)
	}
	t.installed = append(t.installed, meta.Plugin.Name)
	return "/fake/" + meta.Plugin.Name, nil
}

func testResolvedPlugin(t *testing.T, target *fakeTarget, name, version string) *getplugins.ResolvedPlugin {
	t.Helper()
	plugin := addrs.MustParsePluginName(name)
	v := getplugins.MustParseVersion(version)
	spec, err := getplugins.NewRegistrySpec("https://plugins.example.com")
	if err != nil {
		t.Fatal(err)
	}
	meta := getplugins.PackageMeta{
		Plugin:   plugin,
		Version:  v,
		Location: getplugins.PackageHTTPURL("https://plugins.example.com/pkg"),
	}
	return getplugins.NewResolvedPlugin(plugin, v, spec, meta, target)
}

func TestInstall(t *testing.T) {
	target := &fakeTarget{}
	specA := testResolvedPlugin(t, target, "foo", "1.0.0")
	specB := testResolvedPlugin(t, target, "bar", "2.1.0")
	resolver := &spyResolver{ret: []*getplugins.ResolvedPlugin{specA, specB}}
	installer := NewInstaller(&settings.Settings{}, resolver, cli.NewMockUi())

	result, err := installer.Install(context.Background(), []string{"foo", "bar"}, ">= 1.0", Options{
		OptSource: "https://plugins.example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := InstallResult{"foo": specA, "bar": specB}
	if diff := cmp.Diff(want, result, cmp.Comparer(func(a, b *getplugins.ResolvedPlugin) bool { return a == b })); diff != "" {
		t.Errorf("wrong result\n%s", diff)
	}
	if diff := cmp.Diff([]string{"foo", "bar"}, target.installed); diff != "" {
		t.Errorf("wrong install sequence\n%s", diff)
	}

	if len(resolver.calls) != 1 {
		t.Fatalf("wrong number of resolver calls %d; want 1", len(resolver.calls))
	}
	call := resolver.calls[0]
	if got, want := len(call.Reqs), 2; got != want {
		t.Fatalf("wrong number of requirements %d; want %d", got, want)
	}
	if got, want := call.Reqs[0].Plugin.Name, "foo"; got != want {
		t.Errorf("wrong first requirement %q; want %q", got, want)
	}
	if !call.Reqs[0].Constraints.Check(getplugins.MustParseVersion("1.5.0")) {
		t.Errorf("constraint not carried into requirement")
	}
}

func TestInstallConflictingOptions(t *testing.T) {
	resolver := &spyResolver{}
	installer := NewInstaller(&settings.Settings{}, resolver, cli.NewMockUi())

	_, err := installer.Install(context.Background(), []string{"foo"}, "", Options{
		OptGit:      "https://example.com/a.git",
		OptLocalGit: "/tmp/b",
	})
	if want := (ConflictingSourceError{Option1: OptGit, Option2: OptLocalGit}); err != want {
		t.Fatalf("wrong error %#v; want %#v", err, want)
	}

	// Validation failures must happen before any resolution work begins.
	if len(resolver.calls) != 0 {
		t.Errorf("resolver was invoked %d times; want 0", len(resolver.calls))
	}
}

func TestInstallFailFast(t *testing.T) {
	target := &fakeTarget{failFor: "bar"}
	specA := testResolvedPlugin(t, target, "foo", "1.0.0")
	specB := testResolvedPlugin(t, target, "bar", "2.1.0")
	specC := testResolvedPlugin(t, target, "baz", "0.1.0")
	resolver := &spyResolver{ret: []*getplugins.ResolvedPlugin{specA, specB, specC}}
	installer := NewInstaller(&settings.Settings{}, resolver, cli.NewMockUi())

	result, err := installer.Install(context.Background(), []string{"foo", "bar", "baz"}, "", Options{
		OptSource: "https://plugins.example.com",
	})
	if err == nil {
		t.Fatalf("unexpected success")
	}
	if result != nil {
		t.Fatalf("got a result mapping despite failure: %s", spew.Sdump(result))
	}

	// foo was installed before the failure; baz must not have been
	// attempted afterwards.
	if diff := cmp.Diff([]string{"foo"}, target.installed); diff != "" {
		t.Errorf("wrong install sequence\n%s", diff)
	}
}

func TestInstallSettingsOverride(t *testing.T) {
	s := &settings.Settings{
		Deployment: true,
		Frozen:     true,
	}

	var duringDeployment, duringFrozen bool
	resolver := &spyResolver{
		observe: func() {
			duringDeployment = s.Deployment
			duringFrozen = s.Frozen
		},
	}
	installer := NewInstaller(s, resolver, cli.NewMockUi())

	_, err := installer.Install(context.Background(), []string{"foo"}, ">= 0", Options{
		OptSource: "https://plugins.example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if duringDeployment || duringFrozen {
		t.Errorf("deployment/frozen still set during resolution: %v, %v", duringDeployment, duringFrozen)
	}
	if !s.Deployment || !s.Frozen {
		t.Errorf("deployment/frozen not restored after resolution: %v, %v", s.Deployment, s.Frozen)
	}
}

func TestInstallSettingsOverrideOnResolverFailure(t *testing.T) {
	s := &settings.Settings{
		Deployment: true,
		Frozen:     true,
	}
	resolverErr := errors.New("no consistent set of plugins could be found")
	resolver := &spyResolver{err: resolverErr}
	installer := NewInstaller(s, resolver, cli.NewMockUi())

	_, err := installer.Install(context.Background(), []string{"foo"}, "", Options{
		OptSource: "https://plugins.example.com",
	})

	// The resolver's error must propagate unmodified.
	if err != resolverErr {
		t.Fatalf("wrong error %#v; want %#v", err, resolverErr)
	}
	if !s.Deployment || !s.Frozen {
		t.Errorf("deployment/frozen not restored after resolver failure: %v, %v", s.Deployment, s.Frozen)
	}
}

func TestBuildSourceList(t *testing.T) {
	t.Run("git with branch", func(t *testing.T) {
		installer := NewInstaller(&settings.Settings{}, nil, cli.NewMockUi())
		sources, err := installer.buildSourceList(Options{
			OptGit:    "https://example.com/repo.git",
			OptBranch: "main",
		})
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		specs := sources.Specs()
		if len(specs) != 1 {
			t.Fatalf("wrong number of descriptors %d; want 1", len(specs))
		}
		want := getplugins.GitSpec{URI: "https://example.com/repo.git", Branch: "main"}
		if diff := cmp.Diff(want, specs[0]); diff != "" {
			t.Errorf("wrong descriptor\n%s", diff)
		}
	})

	t.Run("explicit source overrides configured remotes", func(t *testing.T) {
		installer := NewInstaller(&settings.Settings{
			Remotes: []string{"https://default.example.com"},
		}, nil, cli.NewMockUi())
		sources, err := installer.buildSourceList(Options{
			OptSource: "https://override.example.com",
		})
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		specs := sources.Specs()
		if len(specs) != 1 {
			t.Fatalf("wrong number of descriptors %d; want 1", len(specs))
		}
		want := getplugins.RegistrySpec{Remotes: []string{"https://override.example.com"}}
		if diff := cmp.Diff(want, specs[0]); diff != "" {
			t.Errorf("wrong descriptor\n%s", diff)
		}
	})

	t.Run("configured remotes", func(t *testing.T) {
		installer := NewInstaller(&settings.Settings{
			Remotes: []string{"https://one.example.com", "https://two.example.com"},
		}, nil, cli.NewMockUi())
		sources, err := installer.buildSourceList(Options{})
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		specs := sources.Specs()
		if len(specs) != 1 {
			t.Fatalf("wrong number of descriptors %d; want 1", len(specs))
		}
		want := getplugins.RegistrySpec{Remotes: []string{"https://one.example.com", "https://two.example.com"}}
		if diff := cmp.Diff(want, specs[0]); diff != "" {
			t.Errorf("wrong descriptor\n%s", diff)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		installer := NewInstaller(&settings.Settings{}, nil, cli.NewMockUi())
		sources, err := installer.buildSourceList(Options{})
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !sources.Empty() {
			t.Errorf("source list not empty: %s", sources.ForDisplay())
		}
	})
}

func TestInstallFromDefinition(t *testing.T) {
	target := &fakeTarget{}
	specA := testResolvedPlugin(t, target, "foo", "1.0.0")
	resolver := &spyResolver{ret: []*getplugins.ResolvedPlugin{specA}}
	installer := NewInstaller(&settings.Settings{}, resolver, cli.NewMockUi())

	sources := getplugins.NewSourceList()
	regSpec, err := getplugins.NewRegistrySpec("https://plugins.example.com")
	if err != nil {
		t.Fatal(err)
	}
	sources.AddRegistry(regSpec)

	lockPath := filepath.Join(t.TempDir(), "plugins.lock.hcl")
	def := &Definition{
		Requirements: getplugins.Requirements{
			{Plugin: addrs.MustParsePluginName("foo"), Constraints: getplugins.AnyVersion},
		},
		Sources: sources,

		// Deliberately configured to persist, to verify that the
		// definition-driven entry point forces persistence off.
		PersistLock: true,
		LockPath:    lockPath,
	}

	result, err := installer.InstallFromDefinition(context.Background(), def)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, ok := result["foo"]; !ok {
		t.Errorf("result has no entry for foo")
	}
	if def.PersistLock {
		t.Errorf("PersistLock still set after InstallFromDefinition")
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Errorf("lock file was written despite ephemeral install")
	}
}

func TestInstallDefinitionPersistsLocks(t *testing.T) {
	target := &fakeTarget{}
	specA := testResolvedPlugin(t, target, "foo", "1.0.0")
	resolver := &spyResolver{ret: []*getplugins.ResolvedPlugin{specA}}
	installer := NewInstaller(&settings.Settings{}, resolver, cli.NewMockUi())

	sources := getplugins.NewSourceList()
	regSpec, err := getplugins.NewRegistrySpec("https://plugins.example.com")
	if err != nil {
		t.Fatal(err)
	}
	sources.AddRegistry(regSpec)

	lockPath := filepath.Join(t.TempDir(), "plugins.lock.hcl")
	def := &Definition{
		Requirements: getplugins.Requirements{
			{Plugin: addrs.MustParsePluginName("foo"), Constraints: getplugins.AnyVersion},
		},
		Sources:     sources,
		PersistLock: true,
		LockPath:    lockPath,
	}

	if _, err := installer.installDefinition(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	content, err := os.ReadFile(lockPath)
	if err != nil {
		t.Fatalf("lock file not written: %s", err)
	}
	if !strings.Contains(string(content), `plugin "foo"`) {
		t.Errorf("lock file missing plugin block:\n%s", content)
	}
	if !strings.Contains(string(content), `version = "1.0.0"`) {
		t.Errorf("lock file missing version attribute:\n%s", content)
	}
}
