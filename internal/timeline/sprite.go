package timeline

import "fmt"

// SpriteFrame is one discrete image held for Hold frames.
type SpriteFrame struct {
	Image string
	Hold  int
}

// SpriteSequence approximates continuous facial animation with held images.
type SpriteSequence struct {
	Frames []SpriteFrame
	// Declared, when positive, must equal the sum of the hold durations.
	Declared int
}

// Duration is the sum of all hold durations.
func (s SpriteSequence) Duration() int {
	total := 0
	for _, f := range s.Frames {
		total += f.Hold
	}
	return total
}

// Index returns the entry active at local frame. Frames before 0 show the
// first entry; frames past the end freeze on the last one. An empty sequence
// returns -1.
func (s SpriteSequence) Index(local int) int {
	if len(s.Frames) == 0 {
		return -1
	}
	if local < 0 {
		return 0
	}
	accumulated := 0
	for i, f := range s.Frames {
		accumulated += f.Hold
		if local < accumulated {
			return i
		}
	}
	return len(s.Frames) - 1
}

// Select returns the image reference active at local frame.
func (s SpriteSequence) Select(local int) string {
	i := s.Index(local)
	if i < 0 {
		return ""
	}
	return s.Frames[i].Image
}

// Validate rejects empty sequences, non-positive holds and a declared total
// that does not match the holds.
func (s SpriteSequence) Validate(name string) error {
	if len(s.Frames) == 0 {
		return invalidf(name, "sprite sequence is empty")
	}
	for i, f := range s.Frames {
		if f.Image == "" {
			return invalidf(fmt.Sprintf("%s[%d]", name, i), "image reference is empty")
		}
		if f.Hold <= 0 {
			return invalidf(fmt.Sprintf("%s[%d]", name, i), "hold must be positive, got %d", f.Hold)
		}
	}
	if s.Declared > 0 && s.Declared != s.Duration() {
		return invalidf(name, "hold durations sum to %d frames but %d were declared", s.Duration(), s.Declared)
	}
	return nil
}
