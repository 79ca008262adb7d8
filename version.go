package casm

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CompilerVersion is the semantic version of the compiler that produced a class.
// The zero value is version 0.0.0.
type CompilerVersion struct {
	raw string // as written, without the "v" prefix
}

// ParseCompilerVersion parses a full MAJOR.MINOR.PATCH version, optionally
// followed by pre-release and build metadata.
func ParseCompilerVersion(s string) (CompilerVersion, error) {
	v := "v" + s
	if s == "" || !semver.IsValid(v) {
		return CompilerVersion{}, &InvalidVersionError{Version: s}
	}
	// semver.IsValid accepts the "v1" and "v1.2" shorthands; a compiler version
	// must spell out all three components.
	core, _, _ := strings.Cut(strings.SplitN(s, "+", 2)[0], "-")
	if strings.Count(core, ".") != 2 {
		return CompilerVersion{}, &InvalidVersionError{Version: s}
	}
	return CompilerVersion{raw: s}, nil
}

// MustParseCompilerVersion is like ParseCompilerVersion but panics on error.
func MustParseCompilerVersion(s string) CompilerVersion {
	v, err := ParseCompilerVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v CompilerVersion) semver() string {
	if v.raw == "" {
		return "v0.0.0"
	}
	return "v" + v.raw
}

// Compare returns -1, 0 or +1 depending on whether v is lower than, equal to
// or greater than other. Build metadata is ignored.
func (v CompilerVersion) Compare(other CompilerVersion) int {
	return semver.Compare(v.semver(), other.semver())
}

// AtLeast reports whether v >= minimum.
func (v CompilerVersion) AtLeast(minimum CompilerVersion) bool {
	return v.Compare(minimum) >= 0
}

// String returns the version as written.
func (v CompilerVersion) String() string {
	if v.raw == "" {
		return "0.0.0"
	}
	return v.raw
}

// MarshalText implements encoding.TextMarshaler.
func (v CompilerVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *CompilerVersion) UnmarshalText(text []byte) error {
	parsed, err := ParseCompilerVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
