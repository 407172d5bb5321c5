package model

// ValidationResult is the outcome of field validation. Errors block further
// processing, warnings do not.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
