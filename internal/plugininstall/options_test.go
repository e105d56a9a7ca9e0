package plugininstall

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/cli"
)

func TestValidateOptions(t *testing.T) {
	tests := map[string]struct {
		Input   Options
		Want    Options
		WantErr error
	}{
		"empty": {
			Input: Options{},
			Want:  Options{},
		},
		"registry source only": {
			Input: Options{OptSource: "https://plugins.example.com"},
			Want:  Options{OptSource: "https://plugins.example.com"},
		},
		"git only": {
			Input: Options{OptGit: "https://example.com/repo.git"},
			Want:  Options{OptGit: "https://example.com/repo.git"},
		},
		"git with branch": {
			Input: Options{OptGit: "https://example.com/repo.git", OptBranch: "main"},
			Want:  Options{OptGit: "https://example.com/repo.git", OptBranch: "main"},
		},
		"git and local_git": {
			Input:   Options{OptGit: "https://example.com/a.git", OptLocalGit: "/tmp/b"},
			WantErr: ConflictingSourceError{Option1: OptGit, Option2: OptLocalGit},
		},
		"git and source": {
			Input:   Options{OptGit: "https://example.com/a.git", OptSource: "https://plugins.example.com"},
			WantErr: ConflictingSourceError{Option1: OptSource, Option2: OptGit},
		},
		"local_git and source": {
			// the alias is rewritten before the conflict check, so this
			// reports the canonical key
			Input:   Options{OptLocalGit: "/tmp/b", OptSource: "https://plugins.example.com"},
			WantErr: ConflictingSourceError{Option1: OptSource, Option2: OptGit},
		},
		"branch without git": {
			Input:   Options{OptBranch: "main"},
			WantErr: InvalidOptionError{Message: `option "branch" can only be used with option "git"`},
		},
		"ref without git": {
			Input:   Options{OptRef: "v1.0.0"},
			WantErr: InvalidOptionError{Message: `option "ref" can only be used with option "git"`},
		},
		"branch and ref with git": {
			Input:   Options{OptGit: "https://example.com/a.git", OptBranch: "main", OptRef: "v1.0.0"},
			WantErr: InvalidOptionError{Message: `options "branch" and "ref" cannot be used together`},
		},
		"branch and ref without git": {
			Input:   Options{OptBranch: "main", OptRef: "v1.0.0"},
			WantErr: InvalidOptionError{Message: `options "branch" and "ref" cannot be used together`},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			installer := NewInstaller(nil, nil, cli.NewMockUi())
			got, err := installer.validateOptions(test.Input)

			if test.WantErr != nil {
				if err == nil {
					t.Fatalf("unexpected success; want error %q", test.WantErr)
				}
				if got, want := err, test.WantErr; got != want {
					t.Fatalf("wrong error\ngot:  %#v\nwant: %#v", got, want)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(test.Want, got); diff != "" {
				t.Errorf("wrong result\n%s", diff)
			}
		})
	}
}

func TestValidateOptionsLocalGitAlias(t *testing.T) {
	ui := cli.NewMockUi()
	installer := NewInstaller(nil, nil, ui)

	got, err := installer.validateOptions(Options{OptLocalGit: "https://example.com/x.git"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := Options{OptGit: "https://example.com/x.git"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong rewritten options\n%s", diff)
	}
	if _, present := got[OptLocalGit]; present {
		t.Errorf("deprecated key %q still present after rewrite", OptLocalGit)
	}

	firstNotice := ui.ErrorWriter.String()
	if firstNotice == "" {
		t.Fatalf("no deprecation notice emitted")
	}

	// A second use of the alias must not emit the notice again.
	_, err = installer.validateOptions(Options{OptLocalGit: "https://example.com/y.git"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got, want := ui.ErrorWriter.String(), firstNotice; got != want {
		t.Errorf("deprecation notice emitted more than once\ngot:  %q\nwant: %q", got, want)
	}
}
