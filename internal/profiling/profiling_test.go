package profiling

import (
	"strings"
	"testing"
)

func TestTrackAccumulatesCalls(t *testing.T) {
	Reset()
	for range 3 {
		Track("test.Op")()
	}
	s, ok := Lookup("test.Op")
	if !ok {
		t.Fatal("expected stat for test.Op")
	}
	if s.Calls != 3 {
		t.Errorf("expected 3 calls, got %d", s.Calls)
	}
}

func TestTopN(t *testing.T) {
	Reset()
	Track("a.One")()
	Track("b.Two")()

	if got := TopN(0); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	out := TopN(10)
	if !strings.Contains(out, "a.One:") || !strings.Contains(out, "b.Two:") {
		t.Errorf("unexpected TopN output %q", out)
	}
	if !strings.HasSuffix(strings.Split(out, ", ")[0], "/1") {
		t.Errorf("expected call count suffix, got %q", out)
	}
}

func TestReset(t *testing.T) {
	Track("x.Y")()
	Reset()
	if len(Snapshot()) != 0 {
		t.Error("expected no stats after reset")
	}
}
