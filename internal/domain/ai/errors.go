package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrBadAssessment indicates the model reply could not be parsed as the expected JSON.
var ErrBadAssessment = errors.New("ai reply is not valid assessment json")
