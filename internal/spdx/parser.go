package spdx

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ludo-technologies/spdxscan/domain"
	"github.com/ludo-technologies/spdxscan/internal/tokenizer"
)

// tagLine matches "SPDX-<TagName>: <value>" with whitespace tolerated
// around the colon. One declaration per physical line.
var tagLine = regexp.MustCompile(`SPDX-([A-Za-z][A-Za-z-]*)\s*:\s*(.*)`)

// recognizedTags maps the tag-name part after "SPDX-" to its kind
var recognizedTags = map[string]domain.TagKind{
	"License-Identifier": domain.TagLicenseIdentifier,
	"FileCopyrightText":  domain.TagFileCopyrightText,
	"Copyright":          domain.TagCopyright,
	"Contributor":        domain.TagContributor,
	"DownloadLocation":   domain.TagDownloadLocation,
	"Homepage":           domain.TagHomepage,
	"Version":            domain.TagVersion,
}

// closingDelimiters are comment closers that may trail a tag value on
// the same line, e.g. "SPDX-License-Identifier: MIT */"
var closingDelimiters = []string{"*/", "-->", "-}", "]]", `"""`, "'''"}

// Parser turns the comment blocks of one file into SPDX declarations
// and diagnostics. Strict mode promotes unknown-identifier findings
// from warning to error.
type Parser struct {
	set    *LicenseSet
	strict bool
}

// NewParser creates a parser validating against the given identifier set
func NewParser(set *LicenseSet, strict bool) *Parser {
	return &Parser{set: set, strict: strict}
}

// ParseBlocks scans the comment blocks of one file in order. Zero
// declarations is the normal result for an unannotated file, not an
// error.
func (p *Parser) ParseBlocks(blocks []tokenizer.Block) ([]domain.Declaration, []domain.Diagnostic) {
	var decls []domain.Declaration
	var diags []domain.Diagnostic
	seenLicense := false

	for _, block := range blocks {
		if block.Unterminated {
			diags = append(diags, domain.Diagnostic{
				Severity: domain.SeverityError,
				Code:     domain.DiagMalformedComment,
				Message:  "block comment is never closed",
				Line:     block.StartLine,
			})
		}

		for i, line := range strings.Split(block.Text, "\n") {
			m := tagLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			kind, ok := recognizedTags[m[1]]
			if !ok {
				continue
			}
			lineNo := block.StartLine + i
			value := trimTagValue(m[2])

			switch kind {
			case domain.TagLicenseIdentifier:
				decl, dds := p.parseLicenseTag(value, lineNo, seenLicense)
				diags = append(diags, dds...)
				if decl != nil {
					decls = append(decls, *decl)
				}
				seenLicense = true
			default:
				decl, dd := parseVerbatimTag(kind, value, lineNo)
				decls = append(decls, decl)
				if dd != nil {
					diags = append(diags, *dd)
				}
			}
		}
	}

	return decls, diags
}

// parseLicenseTag handles SPDX-License-Identifier. Duplicates conflict:
// the first declaration stays primary, later ones become diagnostics
// only.
func (p *Parser) parseLicenseTag(value string, lineNo int, duplicate bool) (*domain.Declaration, []domain.Diagnostic) {
	if duplicate {
		return nil, []domain.Diagnostic{{
			Severity: domain.SeverityError,
			Code:     domain.DiagConflictingDeclaration,
			Message:  fmt.Sprintf("conflicting declarations: duplicate SPDX-License-Identifier %q", value),
			Line:     lineNo,
		}}
	}

	decl := &domain.Declaration{
		Tag:   domain.TagLicenseIdentifier,
		Value: value,
		Line:  lineNo,
	}

	if value == "" {
		return decl, []domain.Diagnostic{{
			Severity: domain.SeverityError,
			Code:     domain.DiagEmptyTagValue,
			Message:  "SPDX-License-Identifier has no value",
			Line:     lineNo,
		}}
	}

	expr, err := ParseExpression(value)
	if err != nil {
		return decl, []domain.Diagnostic{{
			Severity: domain.SeverityError,
			Code:     domain.DiagInvalidExpression,
			Message:  fmt.Sprintf("invalid license expression %q: %v", value, err),
			Line:     lineNo,
		}}
	}
	decl.Expression = expr

	unknownSeverity := domain.SeverityWarning
	if p.strict {
		unknownSeverity = domain.SeverityError
	}

	var diags []domain.Diagnostic
	unknownLicenses, unknownExceptions := ValidateExpression(expr, p.set)
	for _, id := range unknownLicenses {
		diags = append(diags, domain.Diagnostic{
			Severity: unknownSeverity,
			Code:     domain.DiagUnknownIdentifier,
			Message:  fmt.Sprintf("unknown license identifier %q", id),
			Line:     lineNo,
		})
	}
	for _, id := range unknownExceptions {
		diags = append(diags, domain.Diagnostic{
			Severity: unknownSeverity,
			Code:     domain.DiagUnknownIdentifier,
			Message:  fmt.Sprintf("unknown exception identifier %q", id),
			Line:     lineNo,
		})
	}

	decl.Parsed = len(unknownLicenses) == 0 && len(unknownExceptions) == 0
	return decl, diags
}

// parseVerbatimTag records copyright and other recognized tags without
// grammar validation beyond non-emptiness
func parseVerbatimTag(kind domain.TagKind, value string, lineNo int) (domain.Declaration, *domain.Diagnostic) {
	decl := domain.Declaration{
		Tag:    kind,
		Value:  value,
		Line:   lineNo,
		Parsed: value != "",
	}
	if value == "" {
		return decl, &domain.Diagnostic{
			Severity: domain.SeverityWarning,
			Code:     domain.DiagEmptyTagValue,
			Message:  fmt.Sprintf("%s has no value", kind),
			Line:     lineNo,
		}
	}
	return decl, nil
}

// trimTagValue strips trailing comment closers and whitespace from a
// tag value that shares its line with the end of the comment
func trimTagValue(value string) string {
	value = strings.TrimSpace(value)
	for _, delim := range closingDelimiters {
		if idx := strings.Index(value, delim); idx >= 0 {
			value = strings.TrimSpace(value[:idx])
		}
	}
	return value
}
