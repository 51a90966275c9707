// Package diagnostics implements the structured, source-spanned error
// reporting shared across every compiler pass (spec.md §4.G).
package diagnostics

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/otterlang/otter/internal/token"
)

// Severity is the diagnostic's severity level.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
	Note    Severity = "note"
)

// Phase names the compiler pass that raised the diagnostic.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseLoader   Phase = "loader"
	PhaseResolver Phase = "resolver"
	PhaseTypes    Phase = "types"
	PhaseLower    Phase = "lower"
)

// Code is a stable diagnostic identifier, taken from the taxonomy in
// spec.md §7.
type Code string

const (
	LexError           Code = "LexError"
	LayoutError        Code = "LayoutError"
	ParseError         Code = "ParseError"
	ImportCycle        Code = "ImportCycle"
	UnresolvedName     Code = "UnresolvedName"
	Redefinition       Code = "Redefinition"
	VisibilityViolation Code = "VisibilityViolation"
	TypeMismatch       Code = "TypeMismatch"
	OccursCheck        Code = "OccursCheck"
	ArityMismatch      Code = "ArityMismatch"
	MissingField       Code = "MissingField"
	UnknownField       Code = "UnknownField"
	NonExhaustiveMatch Code = "NonExhaustiveMatch"
	UnreachableArm     Code = "UnreachableArm"
	IllegalTopLevel    Code = "IllegalTopLevel"
	DefaultParamOrder  Code = "DefaultParamOrder"
	ReturnOutsideFunction Code = "ReturnOutsideFunction"
	AwaitOutsideAsync  Code = "AwaitOutsideAsync"
	FfiLookupFailed    Code = "FfiLookupFailed"
	InternalError      Code = "InternalError"
)

// defaultSeverity gives the severity a Code carries unless a call site
// overrides it (NonExhaustiveMatch and UnreachableArm are warnings by
// default per spec.md §7).
var defaultSeverity = map[Code]Severity{
	NonExhaustiveMatch: Warning,
	UnreachableArm:      Warning,
}

func severityFor(code Code) Severity {
	if s, ok := defaultSeverity[code]; ok {
		return s
	}
	return Error
}

// Label attaches an explanatory string to a secondary span.
type Label struct {
	Span token.Span
	Text string
}

// Diagnostic is a single structured compiler message (spec.md §4.G).
type Diagnostic struct {
	Severity  Severity
	Code      Code
	Phase     Phase
	Primary   token.Span
	Secondary []Label
	Message   string
	Hint      string
}

func (d *Diagnostic) Error() string {
	return d.Render("")
}

// Render formats the diagnostic the way spec.md §7 describes user-visible
// failures: file, 1-based line/column, a one-line summary, and (when the
// full source is supplied) a caret-underlined excerpt.
func (d *Diagnostic) Render(source string) string {
	var b strings.Builder
	loc := ""
	if d.Primary.File != "" {
		loc = fmt.Sprintf("%s:%d:%d: ", d.Primary.File, d.Primary.Line, d.Primary.Column)
	}
	fmt.Fprintf(&b, "%s%s[%s]: %s", loc, d.Severity, d.Code, d.Message)
	if d.Hint != "" {
		fmt.Fprintf(&b, "\n  hint: %s", d.Hint)
	}
	if source != "" && d.Primary.Line > 0 {
		if excerpt := caretExcerpt(source, d.Primary); excerpt != "" {
			b.WriteString("\n")
			b.WriteString(excerpt)
		}
	}
	for _, lab := range d.Secondary {
		fmt.Fprintf(&b, "\n  %s:%d:%d: %s", lab.Span.File, lab.Span.Line, lab.Span.Column, lab.Text)
	}
	return b.String()
}

func caretExcerpt(source string, span token.Span) string {
	scanner := bufio.NewScanner(strings.NewReader(source))
	line := 1
	for scanner.Scan() {
		if line == span.Line {
			text := scanner.Text()
			width := span.Hi - span.Lo
			if width < 1 {
				width = 1
			}
			col := span.Column - 1
			if col < 0 {
				col = 0
			}
			if col > len(text) {
				col = len(text)
			}
			caretLen := width
			if col+caretLen > len(text)+1 {
				caretLen = len(text) + 1 - col
			}
			if caretLen < 1 {
				caretLen = 1
			}
			return fmt.Sprintf("  %s\n  %s%s", text, strings.Repeat(" ", col), strings.Repeat("^", caretLen))
		}
		line++
	}
	return ""
}

// New builds a diagnostic at the default severity for code.
func New(phase Phase, code Code, span token.Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: severityFor(code),
		Code:     code,
		Phase:    phase,
		Primary:  span,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Sink accumulates diagnostics across passes. Each pass continues after a
// recoverable error (spec.md §7's recovery policy) instead of aborting, and
// the driver consults HasErrors only once lowering would otherwise begin.
type Sink struct {
	Diagnostics []*Diagnostic
	// Strict promotes NonExhaustiveMatch (and other warn-by-default codes)
	// to errors, per the Open Question in spec.md §9 resolved in DESIGN.md.
	Strict bool
}

func NewSink() *Sink { return &Sink{} }

// Add records d, applying Strict promotion.
func (s *Sink) Add(d *Diagnostic) {
	if s.Strict && d.Severity == Warning {
		d.Severity = Error
	}
	s.Diagnostics = append(s.Diagnostics, d)
}

// Report is a convenience wrapper around New+Add.
func (s *Sink) Report(phase Phase, code Code, span token.Span, format string, args ...interface{}) *Diagnostic {
	d := New(phase, code, span, format, args...)
	s.Add(d)
	return d
}

// HasErrors reports whether any error-severity diagnostic was emitted; the
// driver aborts codegen iff this is true (spec.md §7).
func (s *Sink) HasErrors() bool {
	for _, d := range s.Diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

func (s *Sink) Errors() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range s.Diagnostics {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}
