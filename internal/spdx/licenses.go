package spdx

import (
	_ "embed"
	"encoding/json"
	"os"

	"github.com/ludo-technologies/spdxscan/domain"
)

// defaultLicensesJSON is the embedded subset of the SPDX license list
// used when no override file is given. The full list is versioned data
// owned by SPDX; swap it with --known-licenses without rebuilding.
//
//go:embed licenses.json
var defaultLicensesJSON []byte

// licenseFile is the on-disk shape of a known-licenses override file
type licenseFile struct {
	Licenses   []string `json:"licenses"`
	Exceptions []string `json:"exceptions"`
}

// LicenseSet is the set of known SPDX license and exception identifiers.
// It is loaded once at startup and read-only afterwards, so concurrent
// workers can share one instance without locking.
type LicenseSet struct {
	licenses   map[string]struct{}
	exceptions map[string]struct{}
}

// DefaultLicenseSet loads the embedded identifier set
func DefaultLicenseSet() *LicenseSet {
	set, err := parseLicenseSet(defaultLicensesJSON)
	if err != nil {
		// The embedded data is validated by tests; a failure here is a
		// build defect, not a runtime condition.
		panic(err)
	}
	return set
}

// LoadLicenseSet reads an identifier set from a JSON file with the shape
// {"licenses": [...], "exceptions": [...]}. A malformed file is a tool
// error that aborts the run.
func LoadLicenseSet(path string) (*LicenseSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewLicenseDataError("cannot read known-licenses file: "+path, err)
	}
	set, err := parseLicenseSet(data)
	if err != nil {
		return nil, domain.NewLicenseDataError("malformed known-licenses file: "+path, err)
	}
	return set, nil
}

func parseLicenseSet(data []byte) (*LicenseSet, error) {
	var f licenseFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	set := &LicenseSet{
		licenses:   make(map[string]struct{}, len(f.Licenses)),
		exceptions: make(map[string]struct{}, len(f.Exceptions)),
	}
	for _, id := range f.Licenses {
		set.licenses[id] = struct{}{}
	}
	for _, id := range f.Exceptions {
		set.exceptions[id] = struct{}{}
	}
	return set, nil
}

// HasLicense reports whether id is a known license identifier.
// Matching is case-sensitive per the SPDX expression grammar.
func (s *LicenseSet) HasLicense(id string) bool {
	_, ok := s.licenses[id]
	return ok
}

// HasException reports whether id is a known exception identifier
func (s *LicenseSet) HasException(id string) bool {
	_, ok := s.exceptions[id]
	return ok
}

// Len returns the number of known license identifiers
func (s *LicenseSet) Len() int {
	return len(s.licenses)
}
