package app

import (
	"testing"
	"time"

	"instmesh/internal/config"
)

func TestFPSLimiterUnlimited(t *testing.T) {
	config.SetFPSLimit(0)
	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 100; i++ {
		f.Wait(false)
	}
	if d := time.Since(start); d > 50*time.Millisecond {
		t.Errorf("unlimited waits took %v", d)
	}
}

func TestFPSLimiterPacesFrames(t *testing.T) {
	config.SetFPSLimit(200)
	defer config.SetFPSLimit(0)

	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 10; i++ {
		f.Wait(false)
	}
	if d := time.Since(start); d < 45*time.Millisecond {
		t.Errorf("10 frames at 200 FPS took %v, want at least 50ms", d)
	}
}

func TestFPSLimiterPausedCap(t *testing.T) {
	config.SetFPSLimit(0)
	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 3; i++ {
		f.Wait(true)
	}
	if d := time.Since(start); d < 45*time.Millisecond {
		t.Errorf("3 paused frames took %v, want about 50ms", d)
	}
}
