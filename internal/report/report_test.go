package report

import (
	"strings"
	"testing"

	"github.com/lakshaymaurya-felt/cachemole/internal/purge"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
)

func snap(total int64) scan.Snapshot {
	return scan.Snapshot{Root: "/profile", TotalBytes: total}
}

func TestComputeSavings(t *testing.T) {
	r := Compute(snap(151_000_000), snap(1_000_000))

	if r.SavedBytes != 150_000_000 {
		t.Errorf("SavedBytes = %d, want 150000000", r.SavedBytes)
	}
	want := float64(150_000_000) / float64(151_000_000) * 100
	if diff := r.SavedPercent - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("SavedPercent = %f, want %f", r.SavedPercent, want)
	}
}

func TestComputeZeroBaseline(t *testing.T) {
	r := Compute(snap(0), snap(0))
	if r.SavedPercent != 0 {
		t.Errorf("SavedPercent = %f, want 0 on zero baseline", r.SavedPercent)
	}
	if r.SavedBytes != 0 {
		t.Errorf("SavedBytes = %d, want 0", r.SavedBytes)
	}
}

func TestComputeNegativeSavings(t *testing.T) {
	// A live browser can write more than the purge removed.
	r := Compute(snap(100), snap(250))
	if r.SavedBytes != -150 {
		t.Errorf("SavedBytes = %d, want -150 (never clamped)", r.SavedBytes)
	}
	if r.SavedPercent >= 0 {
		t.Errorf("SavedPercent = %f, want negative", r.SavedPercent)
	}
}

func TestComputeAccumulatesBatches(t *testing.T) {
	cache := purge.Batch{Attempted: 3, Succeeded: 2, Skipped: 1, BytesFreed: 500}
	temp := purge.Batch{Attempted: 2, Succeeded: 2, BytesFreed: 120}

	r := Compute(snap(1000), snap(380), cache, temp)

	if r.ItemsAttempted != 5 {
		t.Errorf("ItemsAttempted = %d, want 5", r.ItemsAttempted)
	}
	if r.ItemsSucceeded != 4 {
		t.Errorf("ItemsSucceeded = %d, want 4", r.ItemsSucceeded)
	}
	if r.ItemsSkipped != 1 {
		t.Errorf("ItemsSkipped = %d, want 1", r.ItemsSkipped)
	}
	if r.BytesFreed != 620 {
		t.Errorf("BytesFreed = %d, want 620", r.BytesFreed)
	}
}

func TestRenderMentionsSavings(t *testing.T) {
	r := Compute(snap(2048), snap(1024))
	out := r.Render()
	if !strings.Contains(out, "Saved") {
		t.Error("render should label savings")
	}
	if !strings.Contains(out, "1.0 KB") {
		t.Errorf("render should show saved size, got:\n%s", out)
	}
}

func TestRenderDryRun(t *testing.T) {
	r := Compute(snap(10), snap(10))
	r.DryRun = true
	if !strings.Contains(r.Render(), "dry run") {
		t.Error("dry-run render should say so")
	}
}
