package caps

import "testing"

func TestProbeStateEnqueueIdempotent(t *testing.T) {
	p := &probeState{}

	if !p.enqueue("a@example.org/r", "n#v") {
		t.Error("first enqueue should succeed")
	}
	if p.enqueue("a@example.org/r", "n#v") {
		t.Error("duplicate enqueue should be rejected")
	}
	if !p.enqueue("b@example.org/r", "n#v") {
		t.Error("distinct entity should enqueue")
	}
	if len(p.candidates) != 2 {
		t.Errorf("candidates = %d, want 2", len(p.candidates))
	}
}

func TestProbeStatePopOrder(t *testing.T) {
	p := &probeState{}
	p.enqueue("a", "n")
	p.enqueue("b", "n")

	c, ok := p.pop()
	if !ok || c.entity != "a" {
		t.Errorf("pop() = %+v, want entity a", c)
	}
	c, ok = p.pop()
	if !ok || c.entity != "b" {
		t.Errorf("pop() = %+v, want entity b", c)
	}
	if _, ok := p.pop(); ok {
		t.Error("pop() on empty queue should report empty")
	}
}

func TestProbeStateRemove(t *testing.T) {
	p := &probeState{}
	p.enqueue("a", "n")
	p.enqueue("b", "n")
	p.enqueue("c", "n")

	p.remove("b")
	if len(p.candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(p.candidates))
	}
	if p.candidates[0].entity != "a" || p.candidates[1].entity != "c" {
		t.Errorf("remove() left %v", p.candidates)
	}

	// Removing an absent entity is a no-op.
	p.remove("x")
	if len(p.candidates) != 2 {
		t.Errorf("candidates = %d, want 2", len(p.candidates))
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUnknown, "UNKNOWN"},
		{StatePending, "PENDING"},
		{StateResolved, "RESOLVED"},
		{State(99), "INVALID"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
