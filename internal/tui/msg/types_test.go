package msg

import (
	"testing"
	"time"
)

func TestFrame(t *testing.T) {
	cmd := Frame(7, time.Millisecond)
	got, ok := cmd().(FrameMsg)
	if !ok {
		t.Fatalf("Frame() produced %T, want FrameMsg", cmd())
	}
	if got.Gen != 7 {
		t.Errorf("Gen = %d, want 7", got.Gen)
	}
	if got.At.IsZero() {
		t.Error("At is zero")
	}
}

func TestFog_NegativeDelay(t *testing.T) {
	start := time.Now()
	got, ok := Fog(3, -time.Second)().(FogMsg)
	if !ok {
		t.Fatal("Fog() did not produce a FogMsg")
	}
	if got.Gen != 3 {
		t.Errorf("Gen = %d, want 3", got.Gen)
	}
	if time.Since(start) > time.Second {
		t.Error("negative delay was not clamped to zero")
	}
}
