package getplugins

import (
	"fmt"

	"golang.org/x/mod/sumdb/dirhash"
)

// PackageHashV1 computes a hash of the contents of the package at the
// given location, using hash algorithm 1: the directory hash scheme from
// Go's module system, whose results carry an "h1:" prefix.
//
// Only the local package location types can be hashed; remote locations
// must be retrieved before hashing.
func PackageHashV1(loc PackageLocation) (string, error) {
	switch loc := loc.(type) {
	case PackageLocalDir:
		return dirhash.HashDir(string(loc), "", dirhash.Hash1)
	case PackageLocalArchive:
		return dirhash.HashZip(string(loc), dirhash.Hash1)
	default:
		return "", fmt.Errorf("cannot hash package at %s", loc)
	}
}

// PackageMatchesHash returns true if the package at the given location
// matches the given hash, or false otherwise.
//
// Only the "h1:" scheme is currently supported; an unrecognized scheme is
// an error rather than a mismatch.
func PackageMatchesHash(loc PackageLocation, want string) (bool, error) {
	if len(want) < 3 || want[:3] != "h1:" {
		return false, fmt.Errorf("unsupported hash format %q", want)
	}
	got, err := PackageHashV1(loc)
	if err != nil {
		return false, err
	}
	return got == want, nil
}
