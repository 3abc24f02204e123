package scoring

import "errors"

// ErrInsufficientData signals an expected transient state: no current
// tournament, no tour cards, or a tier table too short for the field. Callers
// should no-op and let the next cycle retry from a fresh snapshot.
var ErrInsufficientData = errors.New("scoring: insufficient snapshot data")
