package plugininstall

import (
	"fmt"
)

// The option keys recognized by an installation request.
const (
	// OptGit names a git repository to install from.
	OptGit = "git"

	// OptLocalGit is a deprecated alias for OptGit, rewritten to it
	// during validation.
	OptLocalGit = "local_git"

	// OptSource names an explicit registry remote, overriding the
	// configured defaults.
	OptSource = "source"

	// OptBranch and OptRef pin a git source to a branch or to a tag or
	// commit respectively. They require OptGit and exclude each other.
	OptBranch = "branch"
	OptRef    = "ref"
)

// Options is the option mapping supplied with an installation request.
// An absent key and an empty value are equivalent.
type Options map[string]string

// validateOptions checks the given options for mutual exclusivity and
// structural validity, returning the validated set.
//
// The one mutation performed here is rewriting the deprecated OptLocalGit
// key to OptGit, in place, after emitting a one-time deprecation notice.
// No network or filesystem access happens in this function.
func (i *Installer) validateOptions(opts Options) (Options, error) {
	if opts == nil {
		opts = make(Options)
	}

	if opts[OptGit] != "" && opts[OptLocalGit] != "" {
		return nil, ConflictingSourceError{Option1: OptGit, Option2: OptLocalGit}
	}

	if opts[OptLocalGit] != "" {
		i.localGitDeprecation.Do(func() {
			if i.Ui != nil {
				i.Ui.Warn(fmt.Sprintf("Option %q is deprecated; use %q instead.", OptLocalGit, OptGit))
			}
		})
		opts[OptGit] = opts[OptLocalGit]
		delete(opts, OptLocalGit)
	}

	if opts[OptSource] != "" && opts[OptGit] != "" {
		return nil, ConflictingSourceError{Option1: OptSource, Option2: OptGit}
	}

	if opts[OptBranch] != "" && opts[OptRef] != "" {
		return nil, InvalidOptionError{Message: fmt.Sprintf("options %q and %q cannot be used together", OptBranch, OptRef)}
	}
	if opts[OptGit] == "" {
		if opts[OptBranch] != "" {
			return nil, InvalidOptionError{Message: fmt.Sprintf("option %q can only be used with option %q", OptBranch, OptGit)}
		}
		if opts[OptRef] != "" {
			return nil, InvalidOptionError{Message: fmt.Sprintf("option %q can only be used with option %q", OptRef, OptGit)}
		}
	}

	return opts, nil
}
