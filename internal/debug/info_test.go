package debug

import (
	"testing"
	"time"
)

func TestComputeInfo(t *testing.T) {
	info := Initial()

	if info.MeanPhysics() != 0 {
		t.Errorf("expected zero mean before any step, got %v", info.MeanPhysics())
	}

	info.RecordPhysics(2*time.Millisecond, 0.01)
	info.RecordPhysics(4*time.Millisecond, 0.01)

	if info.PhysicsSteps != 2 {
		t.Errorf("expected 2 steps, got %d", info.PhysicsSteps)
	}
	if info.LastPhysics != 4*time.Millisecond {
		t.Errorf("expected last 4ms, got %v", info.LastPhysics)
	}
	if info.MeanPhysics() != 3*time.Millisecond {
		t.Errorf("expected mean 3ms, got %v", info.MeanPhysics())
	}

	info.RecordCurves(10 * time.Millisecond)
	if info.CurveRecomputes != 1 || info.LastCurveCompute != 10*time.Millisecond {
		t.Errorf("unexpected curve record: %+v", info)
	}
}
