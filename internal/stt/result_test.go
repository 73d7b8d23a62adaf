package stt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		want     string
	}{
		{"none", nil, ""},
		{"single", []Segment{{Text: " Hello."}}, "Hello."},
		{"ordered", []Segment{{Text: " one"}, {Text: " two"}, {Text: "three "}}, "one two three"},
		{"skips blanks", []Segment{{Text: "a"}, {Text: "   "}, {Text: "b"}}, "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinSegments(tt.segments))
		})
	}
}
