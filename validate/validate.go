package validate

import "github.com/omtsf/omtsf-go"

// Validate runs the configured tiers over f and returns every
// accumulated Diagnostic. The engine always returns a ValidationResult,
// even when L1 produces Error-severity diagnostics — it is the caller,
// not this engine, that decides whether to block downstream operations
// on L1 errors.
func Validate(f *omtsf.File, cfg Config, ext ExternalDataSource) *ValidationResult {
	r := &ValidationResult{}
	if cfg.RunL1 {
		runL1(f, r)
	}
	if cfg.RunL2 {
		runL2(f, r)
	}
	if cfg.RunL3 {
		runL3(f, ext, r)
	}
	return r
}
