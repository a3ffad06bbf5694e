// ABOUTME: Tests for the exponential backoff helper
// ABOUTME: Checks the zero attempt, growth bounds, jitter range, and the cap

package util

import (
	"testing"
	"time"
)

func TestBackoff_ZeroAttempt(t *testing.T) {
	if d := Backoff(time.Second, 0); d != 0 {
		t.Errorf("Backoff(1s, 0) = %v, want 0", d)
	}
	if d := Backoff(time.Second, -1); d != 0 {
		t.Errorf("Backoff(1s, -1) = %v, want 0", d)
	}
}

func TestBackoff_JitterBounds(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := 1; attempt <= 4; attempt++ {
		nominal := base * time.Duration(1<<uint(attempt))
		for i := 0; i < 50; i++ {
			d := Backoff(base, attempt)
			low := nominal - nominal/4
			high := nominal + nominal/4
			if d < low || d > high {
				t.Fatalf("Backoff(%v, %d) = %v, outside [%v, %v]", base, attempt, d, low, high)
			}
		}
	}
}

func TestBackoff_Cap(t *testing.T) {
	// At high attempts the nominal delay saturates at 30s before jitter
	for i := 0; i < 50; i++ {
		d := Backoff(time.Second, 20)
		if d > 30*time.Second+30*time.Second/4 {
			t.Fatalf("Backoff exceeded cap plus jitter: %v", d)
		}
		if d < 30*time.Second-30*time.Second/4 {
			t.Fatalf("Backoff fell below capped floor: %v", d)
		}
	}
}
