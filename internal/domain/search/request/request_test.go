package request

import (
	"strings"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("hello", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "hello" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Threshold() != 0 {
		t.Errorf("Threshold() = %f", r.Threshold())
	}
	if r.TopK() != DefaultTopK {
		t.Errorf("TopK() = %d, want %d", r.TopK(), DefaultTopK)
	}
}

func TestNew_ExplicitValues(t *testing.T) {
	r, err := New("query", 0.7, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Threshold() != 0.7 {
		t.Errorf("Threshold() = %f", r.Threshold())
	}
	if r.TopK() != 50 {
		t.Errorf("TopK() = %d", r.TopK())
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	_, err := New("", 0, 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("x", MaxQueryLength+1), 0, 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "too long") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_QueryAtMaxLength(t *testing.T) {
	_, err := New(strings.Repeat("x", MaxQueryLength), 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_ThresholdValidation(t *testing.T) {
	// Valid values
	for _, s := range []float64{0, 0.5, 1} {
		_, err := New("q", s, 10)
		if err != nil {
			t.Errorf("unexpected error for threshold=%f: %v", s, err)
		}
	}

	// Invalid values
	for _, s := range []float64{-0.1, 1.1, -1, 2} {
		_, err := New("q", s, 10)
		if err == nil {
			t.Errorf("expected error for threshold=%f", s)
		}
	}
}

func TestNew_TopKClamping(t *testing.T) {
	tests := []struct {
		name     string
		topK     int
		wantTopK int
	}{
		{"negative", -1, DefaultTopK},
		{"zero", 0, DefaultTopK},
		{"normal", 100, 100},
		{"over max", 1000, MaxTopK},
		{"exactly max", MaxTopK, MaxTopK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New("q", 0, tt.topK)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.TopK() != tt.wantTopK {
				t.Errorf("TopK() = %d, want %d", r.TopK(), tt.wantTopK)
			}
		})
	}
}
