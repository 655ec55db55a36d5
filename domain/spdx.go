package domain

// TagKind identifies a recognized SPDX tag within a comment block
type TagKind string

const (
	// TagLicenseIdentifier is the SPDX-License-Identifier tag
	TagLicenseIdentifier TagKind = "SPDX-License-Identifier"

	// TagFileCopyrightText is the SPDX-FileCopyrightText tag
	TagFileCopyrightText TagKind = "SPDX-FileCopyrightText"

	// TagCopyright is the legacy SPDX-Copyright tag
	TagCopyright TagKind = "SPDX-Copyright"

	// TagContributor is the SPDX-Contributor tag
	TagContributor TagKind = "SPDX-Contributor"

	// TagDownloadLocation is the SPDX-DownloadLocation tag
	TagDownloadLocation TagKind = "SPDX-DownloadLocation"

	// TagHomepage is the SPDX-Homepage tag
	TagHomepage TagKind = "SPDX-Homepage"

	// TagVersion is the SPDX-Version tag
	TagVersion TagKind = "SPDX-Version"
)

// IsCopyright reports whether the tag carries copyright text
func (k TagKind) IsCopyright() bool {
	return k == TagFileCopyrightText || k == TagCopyright
}

// ExprOperator is a binary operator in a license expression
type ExprOperator string

const (
	ExprAnd ExprOperator = "AND"
	ExprOr  ExprOperator = "OR"
)

// LicenseExpr is a node in a parsed SPDX license expression tree.
// Exactly one of License or Operator is set: a leaf references a single
// license identifier (optionally with a WITH exception), an inner node
// combines its Left and Right children with AND/OR.
type LicenseExpr struct {
	// License is the identifier for a leaf node (e.g. "MIT", "GPL-2.0-only")
	License string `json:"license,omitempty" yaml:"license,omitempty"`

	// OrLater is true when the identifier carries a trailing "+"
	OrLater bool `json:"or_later,omitempty" yaml:"or_later,omitempty"`

	// Exception is the WITH exception identifier, if any
	Exception string `json:"exception,omitempty" yaml:"exception,omitempty"`

	// Operator joins Left and Right for an inner node
	Operator ExprOperator `json:"operator,omitempty" yaml:"operator,omitempty"`
	Left     *LicenseExpr `json:"left,omitempty" yaml:"left,omitempty"`
	Right    *LicenseExpr `json:"right,omitempty" yaml:"right,omitempty"`
}

// IsLeaf reports whether the node references a single license identifier
func (e *LicenseExpr) IsLeaf() bool {
	return e != nil && e.Operator == ""
}

// Leaves returns every license identifier referenced by the expression,
// in left-to-right source order
func (e *LicenseExpr) Leaves() []string {
	if e == nil {
		return nil
	}
	if e.IsLeaf() {
		return []string{e.License}
	}
	return append(e.Left.Leaves(), e.Right.Leaves()...)
}

// Exceptions returns every WITH exception identifier referenced by the
// expression, in left-to-right source order
func (e *LicenseExpr) Exceptions() []string {
	if e == nil {
		return nil
	}
	if e.IsLeaf() {
		if e.Exception != "" {
			return []string{e.Exception}
		}
		return nil
	}
	return append(e.Left.Exceptions(), e.Right.Exceptions()...)
}

// String renders the expression back into SPDX syntax
func (e *LicenseExpr) String() string {
	if e == nil {
		return ""
	}
	if e.IsLeaf() {
		s := e.License
		if e.OrLater {
			s += "+"
		}
		if e.Exception != "" {
			s += " WITH " + e.Exception
		}
		return s
	}
	return "(" + e.Left.String() + " " + string(e.Operator) + " " + e.Right.String() + ")"
}

// Declaration is one SPDX tag line found in a file's comments
type Declaration struct {
	// Tag is the recognized tag kind
	Tag TagKind `json:"tag" yaml:"tag"`

	// Value is the raw tag value, trimmed
	Value string `json:"value" yaml:"value"`

	// Line is the 1-based physical line the tag appears on
	Line int `json:"line" yaml:"line"`

	// Expression is the parsed license expression for License-Identifier
	// tags; nil for all other tags
	Expression *LicenseExpr `json:"expression,omitempty" yaml:"expression,omitempty"`

	// Parsed is true when the value parsed cleanly and, for license
	// expressions, every identifier is present in the known set
	Parsed bool `json:"valid" yaml:"valid"`
}

// Severity classifies a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// DiagnosticCode identifies the condition a diagnostic reports
type DiagnosticCode string

const (
	// DiagMalformedComment flags a block comment opener with no closer
	DiagMalformedComment DiagnosticCode = "malformed_comment"

	// DiagConflictingDeclaration flags a duplicate License-Identifier tag
	DiagConflictingDeclaration DiagnosticCode = "conflicting_declaration"

	// DiagUnknownIdentifier flags an identifier absent from the known set
	DiagUnknownIdentifier DiagnosticCode = "unknown_identifier"

	// DiagInvalidExpression flags a license expression that fails to parse
	DiagInvalidExpression DiagnosticCode = "invalid_expression"

	// DiagEmptyTagValue flags a recognized tag with an empty value
	DiagEmptyTagValue DiagnosticCode = "empty_tag_value"

	// DiagUnreadableFile flags a file that could not be read
	DiagUnreadableFile DiagnosticCode = "unreadable_file"
)

// Diagnostic is a per-file condition recorded during scanning.
// File-level failures are ordinary values, never panics or aborts,
// so one file's problems cannot stop the rest of the run.
type Diagnostic struct {
	Severity Severity       `json:"severity" yaml:"severity"`
	Code     DiagnosticCode `json:"code" yaml:"code"`
	Message  string         `json:"message" yaml:"message"`
	Line     int            `json:"line,omitempty" yaml:"line,omitempty"`
}

// Verdict is the compliance outcome for one file
type Verdict string

const (
	// VerdictCompliant means at least one valid License-Identifier
	// declaration exists and no error diagnostic was recorded
	VerdictCompliant Verdict = "compliant"

	// VerdictInvalid means declarations exist but none is valid, or an
	// error diagnostic was recorded
	VerdictInvalid Verdict = "invalid"

	// VerdictMissing means the file is eligible but carries no SPDX
	// declarations at all; the common case for unannotated files
	VerdictMissing Verdict = "missing"
)

// FileResult is the outcome of scanning a single eligible file
type FileResult struct {
	Path         string        `json:"path" yaml:"path"`
	Dialect      string        `json:"dialect" yaml:"dialect"`
	Verdict      Verdict       `json:"verdict" yaml:"verdict"`
	Declarations []Declaration `json:"declarations" yaml:"declarations"`
	Diagnostics  []Diagnostic  `json:"diagnostics" yaml:"diagnostics"`
}

// License returns the primary license expression string, or "" when the
// file has no valid License-Identifier declaration
func (r *FileResult) License() string {
	for _, d := range r.Declarations {
		if d.Tag == TagLicenseIdentifier && d.Parsed {
			return d.Value
		}
	}
	return ""
}

// HasErrors reports whether any error-severity diagnostic was recorded
func (r *FileResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ReportStatus is the process-level outcome of a whole run
type ReportStatus string

const (
	// StatusPass means every eligible file is compliant
	StatusPass ReportStatus = "pass"

	// StatusFail means at least one eligible file is not compliant
	StatusFail ReportStatus = "fail"

	// StatusInterrupted means the run was cancelled before every file was
	// scanned; the report holds the files completed so far
	StatusInterrupted ReportStatus = "interrupted"
)

// Summary aggregates per-verdict and per-license counts for a report
type Summary struct {
	FilesScanned   int            `json:"files_scanned" yaml:"files_scanned"`
	FilesSkipped   int            `json:"files_skipped" yaml:"files_skipped"`
	Compliant      int            `json:"compliant" yaml:"compliant"`
	Invalid        int            `json:"invalid" yaml:"invalid"`
	Missing        int            `json:"missing" yaml:"missing"`
	Errors         int            `json:"errors" yaml:"errors"`
	Warnings       int            `json:"warnings" yaml:"warnings"`
	LicenseCounts  map[string]int `json:"license_counts,omitempty" yaml:"license_counts,omitempty"`
	CompliancePct  float64        `json:"compliance_pct" yaml:"compliance_pct"`
}

// ScanReport is the aggregated result of one scan invocation. Files are
// ordered lexicographically by path so identical trees produce identical
// reports across runs.
type ScanReport struct {
	Status  ReportStatus `json:"overallVerdict" yaml:"overall_verdict"`
	Files   []FileResult `json:"files" yaml:"files"`
	Skipped []string     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Summary Summary      `json:"summary" yaml:"summary"`

	// Wall-clock metadata is kept out of the structured formats so that
	// scanning an unchanged tree twice yields byte-identical json/yaml;
	// the text renderer may still show it.
	GeneratedAt string `json:"-" yaml:"-"`
	DurationMs  int64  `json:"-" yaml:"-"`
	Version     string `json:"version" yaml:"version"`
}

// ComputeSummary rebuilds the summary counts from the file results
func (r *ScanReport) ComputeSummary() {
	s := Summary{
		FilesScanned:  len(r.Files),
		FilesSkipped:  len(r.Skipped),
		LicenseCounts: make(map[string]int),
	}
	for i := range r.Files {
		f := &r.Files[i]
		switch f.Verdict {
		case VerdictCompliant:
			s.Compliant++
		case VerdictInvalid:
			s.Invalid++
		case VerdictMissing:
			s.Missing++
		}
		for _, d := range f.Diagnostics {
			switch d.Severity {
			case SeverityError:
				s.Errors++
			case SeverityWarning:
				s.Warnings++
			}
		}
		if lic := f.License(); lic != "" {
			s.LicenseCounts[lic]++
		}
	}
	if s.FilesScanned > 0 {
		s.CompliancePct = float64(s.Compliant) / float64(s.FilesScanned) * 100
	}
	if len(s.LicenseCounts) == 0 {
		s.LicenseCounts = nil
	}
	r.Summary = s
}
