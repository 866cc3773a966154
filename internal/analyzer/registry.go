package analyzer

import "fmt"

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "alpha", "":
		return NewAlphaDetector(), nil
	case "keyed":
		d := NewAlphaDetector()
		d.KeyTolerance = 48
		return d, nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
