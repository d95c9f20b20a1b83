package gol

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestPromptGenerations(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"5\n", 5, false},
		{"  12  \n", 12, false},
		{"7", 7, false},
		{"0\n", 0, true},
		{"-3\n", 0, true},
		{"ten\n", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := PromptGenerations(strings.NewReader(tt.in), io.Discard)()
		if tt.wantErr {
			if !errors.Is(err, ErrConfig) {
				t.Errorf("%q: got %v, want ErrConfig", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: got (%d, %v), want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestParseProtocol(t *testing.T) {
	for _, p := range []Protocol{Halo, Collective} {
		got, err := ParseProtocol(p.String())
		if err != nil || got != p {
			t.Errorf("ParseProtocol(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseProtocol("mesh"); !errors.Is(err, ErrConfig) {
		t.Errorf("unknown protocol: %v", err)
	}
}
