package config

import "fmt"

// Policy selects how strictly unknown identifiers are treated
type Policy string

const (
	PolicyLenient Policy = "lenient"
	PolicyStrict  Policy = "strict"
)

// GetMinimalConfigTemplate returns a small config with essential options only
func GetMinimalConfigTemplate() string {
	return `# spdxscan configuration
scan:
  strict: false
  exclude_patterns:
    - node_modules
    - vendor
    - dist
    - build
    - .git

output:
  format: text
`
}

// GetFullConfigTemplate returns a documented config file for the given
// default license and policy
func GetFullConfigTemplate(licenseID string, policy Policy) string {
	return fmt.Sprintf(`# spdxscan configuration
# See https://spdx.org/licenses/ for the list of valid identifiers.

scan:
  # Treat unknown license identifiers as errors instead of warnings.
  strict: %t

  # Paths matching these gitignore-style patterns are never scanned.
  exclude_patterns:
    - node_modules
    - vendor
    - dist
    - build
    - target
    - .git
    - "*.min.js"
    - "*.pb.go"
    - "*_generated.go"

  # Walk directories recursively.
  recursive: true

  # Worker pool size. 0 = one worker per CPU.
  concurrency: 0

  # Extra extension-to-dialect mappings, layered over the built-ins.
  # Dialect names: c, hash, python, xml, sql, lisp, haskell.
  # extensions:
  #   .zig: c
  #   .ini: hash

licenses:
  # Override the embedded SPDX identifier set with a JSON file of the
  # shape {"licenses": [...], "exceptions": [...]}.
  # path: ./spdx-licenses.json

correction:
  # Header written by 'spdxscan correct'.
  license_id: %s
  # copyright_text: 2025 Example Corp <legal@example.com>
  backup: false

output:
  # text, json, yaml, csv or markdown.
  format: text
  show_details: false
`, policy == PolicyStrict, licenseID)
}
