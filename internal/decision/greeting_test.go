package decision

import "testing"

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"hi", true},
		{"Hello there!", true},
		{"good morning team", true},
		{"hey bot", true},
		{"", false},
		{"there", false},
		{"hi?", false},
		{"hi how are you", false},
		{"hello, what can you do", false},
		{"hi I need to cancel my order", false},
		{"hello hello hello hello hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsGreeting(tt.text); got != tt.want {
				t.Errorf("IsGreeting(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
