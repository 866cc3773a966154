package renderer

import "github.com/ivlev/babaru/internal/timeline"

// CameraState represents the reveal camera at a specific frame
type CameraState struct {
	X    float64 // Anchor X position (center point in pixels)
	Y    float64 // Anchor Y position (center point in pixels)
	Zoom float64 // Zoom level (1.0 = no zoom)
}

// CameraKeyframe pins the camera at a frame. Easing shapes the segment that
// ends at this keyframe; nil means linear.
type CameraKeyframe struct {
	Frame  int
	X      float64
	Y      float64
	Zoom   float64
	Easing timeline.Easing
}

// InterpolateCamera calculates camera state at a given frame by interpolating between keyframes
func InterpolateCamera(keyframes []CameraKeyframe, frame int) CameraState {
	if len(keyframes) == 0 {
		return CameraState{Zoom: 1.0}
	}

	// If before first keyframe, use first keyframe
	if frame <= keyframes[0].Frame {
		kf := keyframes[0]
		return CameraState{X: kf.X, Y: kf.Y, Zoom: kf.Zoom}
	}

	// If after last keyframe, use last keyframe
	if frame >= keyframes[len(keyframes)-1].Frame {
		kf := keyframes[len(keyframes)-1]
		return CameraState{X: kf.X, Y: kf.Y, Zoom: kf.Zoom}
	}

	// Find surrounding keyframes
	var prevKf, nextKf CameraKeyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if frame >= keyframes[i].Frame && frame < keyframes[i+1].Frame {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	span := nextKf.Frame - prevKf.Frame
	if span <= 0 {
		return CameraState{X: nextKf.X, Y: nextKf.Y, Zoom: nextKf.Zoom}
	}
	t := float64(frame-prevKf.Frame) / float64(span)

	if nextKf.Easing != nil {
		t = nextKf.Easing(t)
	}

	return CameraState{
		X:    timeline.Lerp(prevKf.X, nextKf.X, t),
		Y:    timeline.Lerp(prevKf.Y, nextKf.Y, t),
		Zoom: timeline.Lerp(prevKf.Zoom, nextKf.Zoom, t),
	}
}
