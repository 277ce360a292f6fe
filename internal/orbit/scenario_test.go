package orbit

import "testing"

func TestDefaultScenario(t *testing.T) {
	d := DefaultScenario.Drawables()

	if len(d.Bodies) != 4 {
		t.Fatalf("expected 4 bodies, got %d", len(d.Bodies))
	}
	if len(d.Curves) != 0 {
		t.Errorf("expected no curves, got %d", len(d.Curves))
	}

	seen := make(map[string]bool)
	for _, b := range d.Bodies {
		if seen[b.ID.String()] {
			t.Errorf("duplicate id %s", b.ID)
		}
		seen[b.ID.String()] = true
	}

	if d.Bodies[0].Mass != 1660 || d.Bodies[0].Radius != 1.2 {
		t.Errorf("unexpected central body: %+v", d.Bodies[0])
	}
	if d.Bodies[3].Center.X != -12 {
		t.Errorf("unexpected outer body center: %v", d.Bodies[3].Center)
	}
}

func TestScenarioFreshIDs(t *testing.T) {
	a := DefaultScenario.Drawables()
	b := DefaultScenario.Drawables()

	for i := range a.Bodies {
		if a.Bodies[i].ID == b.Bodies[i].ID {
			t.Errorf("body %d reused id across instantiations", i)
		}
	}
}

func TestLookupScenario(t *testing.T) {
	for _, name := range ScenarioNames() {
		s, ok := LookupScenario(name)
		if !ok {
			t.Errorf("LookupScenario(%q) not found", name)
			continue
		}
		if len(s.Bodies) == 0 {
			t.Errorf("scenario %q has no bodies", name)
		}
	}

	if _, ok := LookupScenario("nonexistent"); ok {
		t.Error("expected lookup of unknown scenario to fail")
	}
}
