package validate

// Config selects which validation tiers a Validate call runs. Any tier
// left false is skipped entirely — no diagnostics for that tier are
// produced, rather than producing empty/skipped ones.
type Config struct {
	RunL1 bool
	RunL2 bool
	RunL3 bool
}

// AllTiers runs L1, L2, and L3.
func AllTiers() Config { return Config{RunL1: true, RunL2: true, RunL3: true} }

// StructuralOnly runs only L1, the tier downstream operations should
// block on when it errors.
func StructuralOnly() Config { return Config{RunL1: true} }
