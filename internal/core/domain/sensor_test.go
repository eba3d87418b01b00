package domain

import (
	"errors"
	"testing"
)

func TestValidateHost(t *testing.T) {
	tests := []struct {
		host string
		want error
	}{
		{"frog-1", nil},
		{"ribbit_frog_42", nil},
		{"", ErrSensorRequired},
		{">", ErrInvalidHost},
		{"*", ErrInvalidHost},
		{"frog.1", ErrInvalidHost},
		{"frog 1", ErrInvalidHost},
		{"frog\t1", ErrInvalidHost},
		{"frog-1\n", ErrInvalidHost},
	}
	for _, tt := range tests {
		err := ValidateHost(tt.host)
		if tt.want == nil && err != nil {
			t.Errorf("ValidateHost(%q) = %v, want nil", tt.host, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("ValidateHost(%q) = %v, want %v", tt.host, err, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	d, w, err := ParseDuration("")
	if err != nil || d != DefaultDuration || w.Hours() != 24 {
		t.Errorf("empty label: got %q %v %v", d, w, err)
	}
	if _, _, err := ParseDuration("2w"); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}
