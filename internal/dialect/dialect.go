// Package dialect maps source files to comment grammars. Dialects are
// plain data (line prefixes and block delimiter pairs) consumed by the
// tokenizer, so supporting a new language is a table entry, not new code.
package dialect

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
)

// BlockPair is a block comment delimiter pair, e.g. "/*" and "*/"
type BlockPair struct {
	Open  string
	Close string
}

// Dialect describes the comment grammar for a family of languages
type Dialect struct {
	// Name identifies the dialect in results, e.g. "c", "hash", "xml"
	Name string

	// LinePrefixes are line-comment markers honored anywhere a line starts
	LinePrefixes []string

	// BlockPairs are block-comment delimiters. Openers are honored only at
	// line start after whitespace; blocks do not nest.
	BlockPairs []BlockPair
}

// The built-in dialects. C-style covers the bulk of compiled and web
// languages; hash covers scripting and config formats.
var (
	CStyle = Dialect{
		Name:         "c",
		LinePrefixes: []string{"//"},
		BlockPairs:   []BlockPair{{Open: "/*", Close: "*/"}},
	}

	Hash = Dialect{
		Name:         "hash",
		LinePrefixes: []string{"#"},
	}

	Python = Dialect{
		Name:         "python",
		LinePrefixes: []string{"#"},
		BlockPairs: []BlockPair{
			{Open: `"""`, Close: `"""`},
			{Open: "'''", Close: "'''"},
		},
	}

	XML = Dialect{
		Name:       "xml",
		BlockPairs: []BlockPair{{Open: "<!--", Close: "-->"}},
	}

	SQL = Dialect{
		Name:         "sql",
		LinePrefixes: []string{"--"},
		BlockPairs:   []BlockPair{{Open: "/*", Close: "*/"}},
	}

	Lisp = Dialect{
		Name:         "lisp",
		LinePrefixes: []string{";;", ";"},
	}

	Haskell = Dialect{
		Name:         "haskell",
		LinePrefixes: []string{"--"},
		BlockPairs:   []BlockPair{{Open: "{-", Close: "-}"}},
	}

	Lua = Dialect{
		Name:         "lua",
		LinePrefixes: []string{"--"},
		BlockPairs:   []BlockPair{{Open: "--[[", Close: "]]"}},
	}
)

// defaultExtensions maps lowercase file extensions to dialects
var defaultExtensions = map[string]*Dialect{
	// C-style
	".c": &CStyle, ".h": &CStyle, ".cpp": &CStyle, ".cc": &CStyle,
	".cxx": &CStyle, ".hpp": &CStyle, ".hxx": &CStyle,
	".go": &CStyle, ".rs": &CStyle, ".java": &CStyle, ".kt": &CStyle,
	".swift": &CStyle, ".scala": &CStyle, ".cs": &CStyle,
	".js": &CStyle, ".jsx": &CStyle, ".ts": &CStyle, ".tsx": &CStyle,
	".mjs": &CStyle, ".cjs": &CStyle, ".php": &CStyle, ".dart": &CStyle,
	".css": &CStyle, ".scss": &CStyle, ".less": &CStyle,
	".m": &CStyle, ".mm": &CStyle, ".proto": &CStyle,

	// Hash
	".sh": &Hash, ".bash": &Hash, ".zsh": &Hash, ".fish": &Hash,
	".rb": &Hash, ".pl": &Hash, ".pm": &Hash, ".r": &Hash,
	".yaml": &Hash, ".yml": &Hash, ".toml": &Hash,
	".mk": &Hash, ".cmake": &Hash, ".tf": &Hash, ".nix": &Hash,

	// Python
	".py": &Python, ".pyx": &Python, ".pyi": &Python,

	// XML-like
	".html": &XML, ".htm": &XML, ".xml": &XML, ".svg": &XML,
	".vue": &XML, ".svelte": &XML, ".md": &XML,

	// Others
	".sql": &SQL,
	".el":  &Lisp, ".lisp": &Lisp, ".clj": &Lisp, ".scm": &Lisp,
	".hs": &Haskell, ".elm": &Haskell,
	".lua": &Lua,
}

// shebangDialects maps interpreter name patterns to dialects for
// extensionless scripts
var shebangDialects = []struct {
	pattern *regexp.Regexp
	dialect *Dialect
}{
	{regexp.MustCompile(`python`), &Python},
	{regexp.MustCompile(`(ba|z|fi|^)sh$`), &Hash},
	{regexp.MustCompile(`(perl|ruby|awk)`), &Hash},
	{regexp.MustCompile(`node`), &CStyle},
}

// binarySniffLen is how many leading bytes are checked for NUL bytes
const binarySniffLen = 8000

// Registry resolves file paths to dialects. The zero value is not
// usable; construct with NewRegistry.
type Registry struct {
	extensions map[string]*Dialect
}

// NewRegistry returns a registry with the built-in extension table
func NewRegistry() *Registry {
	return &Registry{extensions: defaultExtensions}
}

// NewRegistryWithExtensions returns a registry with extra extension
// mappings layered over the built-in table. Keys must include the dot.
func NewRegistryWithExtensions(extra map[string]string) *Registry {
	byName := map[string]*Dialect{
		CStyle.Name: &CStyle, Hash.Name: &Hash, Python.Name: &Python,
		XML.Name: &XML, SQL.Name: &SQL, Lisp.Name: &Lisp, Haskell.Name: &Haskell,
		Lua.Name: &Lua,
	}

	merged := make(map[string]*Dialect, len(defaultExtensions)+len(extra))
	for ext, d := range defaultExtensions {
		merged[ext] = d
	}
	for ext, name := range extra {
		if d, ok := byName[name]; ok {
			merged[strings.ToLower(ext)] = d
		}
	}
	return &Registry{extensions: merged}
}

// ForPath returns the dialect for a file path, or nil when the extension
// is unmapped. Unmapped files are ineligible, not errors.
func (r *Registry) ForPath(path string) *Dialect {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil
	}
	return r.extensions[ext]
}

// ForContent resolves a dialect for extensionless files using the
// shebang line, if present
func (r *Registry) ForContent(path string, content []byte) *Dialect {
	if d := r.ForPath(path); d != nil {
		return d
	}
	if !bytes.HasPrefix(content, []byte("#!")) {
		return nil
	}
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	for _, s := range shebangDialects {
		if s.pattern.Match(line) {
			return s.dialect
		}
	}
	return nil
}

// IsBinary reports whether the content looks binary. A NUL byte in the
// leading window marks the file ineligible even when its extension maps
// to a dialect, so misnamed binaries are never tokenized.
func IsBinary(content []byte) bool {
	window := content
	if len(window) > binarySniffLen {
		window = window[:binarySniffLen]
	}
	return bytes.IndexByte(window, 0) >= 0
}
