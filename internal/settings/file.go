package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	homedir "github.com/mitchellh/go-homedir"
)

// configFile is the decode target for the optional configuration file.
type configFile struct {
	Remotes    []string `hcl:"remotes,optional"`
	CacheDir   string   `hcl:"cache_dir,optional"`
	Deployment bool     `hcl:"deployment,optional"`
	Frozen     bool     `hcl:"frozen,optional"`
}

// DefaultConfigFile returns the path where Load looks for the
// configuration file when no explicit path is given.
func DefaultConfigFile() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot find home directory: %s", err)
	}
	return filepath.Join(home, ".pluginstall", "config.hcl"), nil
}

// DefaultCacheDir returns the cache directory used when neither the
// configuration file nor the caller supplies one.
func DefaultCacheDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot find home directory: %s", err)
	}
	return filepath.Join(home, ".pluginstall", "plugins"), nil
}

// Load reads settings from the configuration file at the given path,
// falling back to defaults for anything the file doesn't set. An empty
// path means the default location; an absent file is not an error.
func Load(path string) (*Settings, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigFile()
		if err != nil {
			return nil, err
		}
	}

	var file configFile
	if _, err := os.Stat(path); err == nil {
		parser := hclparse.NewParser()
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid configuration file %s: %s", path, diags.Error())
		}
		diags = gohcl.DecodeBody(f.Body, nil, &file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid configuration file %s: %s", path, diags.Error())
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot read configuration file %s: %s", path, err)
	}

	cacheDir := file.CacheDir
	if cacheDir == "" {
		var err error
		cacheDir, err = DefaultCacheDir()
		if err != nil {
			return nil, err
		}
	}

	return &Settings{
		Remotes:    file.Remotes,
		CacheDir:   cacheDir,
		Deployment: file.Deployment,
		Frozen:     file.Frozen,
	}, nil
}
