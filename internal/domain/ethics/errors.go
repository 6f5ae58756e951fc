package ethics

import "errors"

// ErrEmptyDecision indicates an evaluation request without a decision text.
var ErrEmptyDecision = errors.New("decision is required")

// ErrLowQuality indicates a proposed standard below the minimum quality gate.
var ErrLowQuality = errors.New("proposed standard below minimum quality score")

// ErrDuplicateStandard indicates a proposed standard too similar to an existing guideline.
var ErrDuplicateStandard = errors.New("proposed standard duplicates an existing guideline")
