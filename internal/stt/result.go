package stt

import (
	"strings"
	"time"
)

// Segment is one contiguous piece of recognized speech.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// JoinSegments concatenates segment texts with single spaces, in order.
// Blank segments are skipped.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
