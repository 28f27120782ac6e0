package click

import (
	"testing"
	"time"
)

func TestSingleClickThenTimeout_EmitsOnePreview(t *testing.T) {
	d := New(DefaultWindow)

	res := d.Click("src/index.ts")
	if res.Intent != IntentNone {
		t.Errorf("first click intent = %v, want none", res.Intent)
	}
	if !res.ScheduleTimeout {
		t.Fatal("first click must schedule a timeout")
	}

	if got := d.Timeout("src/index.ts", res.Token); got != IntentPreview {
		t.Errorf("timeout intent = %v, want preview", got)
	}

	// The machine is back in idle: a replayed timer does nothing.
	if got := d.Timeout("src/index.ts", res.Token); got != IntentNone {
		t.Errorf("stale timeout intent = %v, want none", got)
	}
}

func TestDoubleClick_EmitsOneCommitNoPreview(t *testing.T) {
	d := New(DefaultWindow)

	first := d.Click("README.md")
	second := d.Click("README.md")

	if second.Intent != IntentCommit {
		t.Errorf("second click intent = %v, want commit", second.Intent)
	}
	if second.ScheduleTimeout {
		t.Error("second click must not schedule another timeout")
	}

	// The first click's timer fires late and must stay silent.
	if got := d.Timeout("README.md", first.Token); got != IntentNone {
		t.Errorf("invalidated timeout emitted %v, want none", got)
	}
}

func TestClicksOnDifferentEntriesAreIndependent(t *testing.T) {
	d := New(DefaultWindow)

	a := d.Click("a.txt")
	b := d.Click("b.txt")

	if b.Intent != IntentNone || !b.ScheduleTimeout {
		t.Error("click on a different entry must start its own pending state")
	}

	// Both pending clicks resolve independently.
	if got := d.Timeout("a.txt", a.Token); got != IntentPreview {
		t.Errorf("entry a timeout = %v, want preview", got)
	}
	if got := d.Timeout("b.txt", b.Token); got != IntentPreview {
		t.Errorf("entry b timeout = %v, want preview", got)
	}
}

func TestThirdClickStartsANewSequence(t *testing.T) {
	d := New(DefaultWindow)

	d.Click("x")
	if res := d.Click("x"); res.Intent != IntentCommit {
		t.Fatalf("second click = %v, want commit", res.Intent)
	}

	third := d.Click("x")
	if third.Intent != IntentNone || !third.ScheduleTimeout {
		t.Error("third click should begin a fresh pending-single state")
	}
	if got := d.Timeout("x", third.Token); got != IntentPreview {
		t.Errorf("third click timeout = %v, want preview", got)
	}
}

func TestCancelDropsPendingClick(t *testing.T) {
	d := New(DefaultWindow)

	res := d.Click("gone.txt")
	d.Cancel("gone.txt")

	if d.Pending("gone.txt") {
		t.Error("cancel should clear the pending state")
	}
	if got := d.Timeout("gone.txt", res.Token); got != IntentNone {
		t.Errorf("timeout after cancel = %v, want none", got)
	}
}

func TestNew_WindowFallback(t *testing.T) {
	if got := New(0).Window(); got != DefaultWindow {
		t.Errorf("zero window = %v, want %v", got, DefaultWindow)
	}
	if got := New(100 * time.Millisecond).Window(); got != 100*time.Millisecond {
		t.Errorf("window = %v, want 100ms", got)
	}
}
