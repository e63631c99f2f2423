package analysis

import (
	"math"
	"testing"
)

func TestNewComplexityAnalyzerValidatesWeights(t *testing.T) {
	if _, err := NewComplexityAnalyzer(0.5, 0.6); err == nil {
		t.Error("expected error for weights summing to 1.1")
	}
	if _, err := NewComplexityAnalyzer(0.3, 0.3); err == nil {
		t.Error("expected error for weights summing to 0.6")
	}
	if _, err := NewComplexityAnalyzer(0.5, 0.5); err != nil {
		t.Errorf("unexpected error for valid weights: %v", err)
	}
	// Within the 0.01 tolerance.
	if _, err := NewComplexityAnalyzer(0.504, 0.5); err != nil {
		t.Errorf("unexpected error within tolerance: %v", err)
	}
}

func TestComplexityAnalyze(t *testing.T) {
	c, err := NewComplexityAnalyzer(0.5, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	if got := c.Analyze(""); got.Score != 0 {
		t.Errorf("empty text Score = %v, want 0", got.Score)
	}

	// 10 unique words, one sentence: ASL 10 -> normalized 0.25, TTR 1.
	got := c.Analyze("one two three four five six seven eight nine ten.")
	if math.Abs(got.Score-0.625) > 1e-9 {
		t.Errorf("Score = %v, want 0.625", got.Score)
	}
	if got.ASL != 10 {
		t.Errorf("ASL = %v, want 10", got.ASL)
	}
	if got.TTR != 1 {
		t.Errorf("TTR = %v, want 1", got.TTR)
	}
}

func TestComplexityASLFloor(t *testing.T) {
	c, _ := NewComplexityAnalyzer(1.0, 0.0)
	// 7 words over 2 sentences floors to ASL 3.
	got := c.Analyze("one two three four. five six seven.")
	if got.ASL != 3 {
		t.Errorf("ASL = %v, want 3 (integer floor)", got.ASL)
	}
}

func TestTypingSpeed(t *testing.T) {
	if _, ok := TypingSpeed("hello", 1000, 1000); ok {
		t.Error("zero duration should be skipped")
	}
	if _, ok := TypingSpeed("hello", 2000, 1000); ok {
		t.Error("negative duration should be skipped")
	}
	speed, ok := TypingSpeed("0123456789", 0, 2000)
	if !ok {
		t.Fatal("expected a valid sample")
	}
	if speed != 5 {
		t.Errorf("speed = %v, want 5 chars/sec", speed)
	}
}
