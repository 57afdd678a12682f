// Package validate implements a three-tier validation engine: L1
// structural checks, L2 semantic graph checks, and L3 external lookups
// via an injected ExternalDataSource.
package validate

import "fmt"

// Severity classifies a Diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic reports one rule's finding about one location in the file.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	Path     string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s (%s)", d.Severity, d.RuleID, d.Message, d.Path)
}

// ValidationResult owns every Diagnostic produced by a Validate run, in
// rule-declaration order (graph-traversal order — nodes then edges,
// original index order — within each rule).
type ValidationResult struct {
	Diagnostics []Diagnostic
}

func (r *ValidationResult) add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Errors returns every Error-severity diagnostic.
func (r *ValidationResult) Errors() []Diagnostic { return r.bySeverity(Error) }

// Warnings returns every Warning-severity diagnostic.
func (r *ValidationResult) Warnings() []Diagnostic { return r.bySeverity(Warning) }

func (r *ValidationResult) bySeverity(s Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any diagnostic is Error severity.
func (r *ValidationResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// IsConformant reports whether the file has no Error-severity diagnostics.
func (r *ValidationResult) IsConformant() bool { return !r.HasErrors() }
