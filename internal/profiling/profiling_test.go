package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAndReset(t *testing.T) {
	ResetFrame()
	stop := Track("instancing.UpdateCulling")
	time.Sleep(2 * time.Millisecond)
	stop()
	Add("instancing.shown", 3)
	Add("instancing.shown", 2)

	if d := Snapshot()["instancing.UpdateCulling"]; d < 2*time.Millisecond {
		t.Errorf("tracked %v, want >= 2ms", d)
	}
	if got := Counter("instancing.shown"); got != 5 {
		t.Errorf("counter = %d, want 5", got)
	}

	ResetFrame()
	if len(Snapshot()) != 0 || Counter("instancing.shown") != 0 {
		t.Errorf("ResetFrame left data behind")
	}
}

func TestSumWithPrefixAndTopN(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["graphics.Upload"] = 1500 * time.Microsecond
	frameTotals["graphics.Draw"] = 3 * time.Millisecond
	frameTotals["instancing.UpdateCulling"] = 500 * time.Microsecond
	mu.Unlock()

	if got := SumWithPrefix("graphics."); got != 4500*time.Microsecond {
		t.Errorf("SumWithPrefix = %v", got)
	}
	got := TopN(2)
	if got != "graphics.Draw:3ms, graphics.Upload:1.5ms" {
		t.Errorf("TopN = %q", got)
	}
	if !strings.Contains(TopN(10), "instancing.UpdateCulling:0.5ms") {
		t.Errorf("TopN(10) = %q", TopN(10))
	}
	ResetFrame()
}
