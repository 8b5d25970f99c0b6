package snapshot

import "testing"

func TestSnapshotClone(t *testing.T) {
	orig := Snapshot(`{"n":1}`)
	clone := orig.Clone()

	orig[5] = '9'
	if string(clone) != `{"n":1}` {
		t.Error("clone aliases the original")
	}

	if Snapshot(nil).Clone() != nil {
		t.Error("nil clone should stay nil")
	}
}

func TestSnapshotIsZero(t *testing.T) {
	if !Snapshot(nil).IsZero() {
		t.Error("nil snapshot should be zero")
	}
	if Snapshot(`{}`).IsZero() {
		t.Error("non-empty snapshot should not be zero")
	}
}

func TestContextClone(t *testing.T) {
	ctx := Context{
		ObjectCount:   2,
		SelectionRefs: []string{"a", "b"},
	}
	clone := ctx.Clone()

	ctx.SelectionRefs[0] = "changed"
	if clone.SelectionRefs[0] != "a" {
		t.Error("clone aliases the selection slice")
	}
}

func TestProviderFuncs(t *testing.T) {
	var applied Snapshot
	p := ProviderFuncs{
		Capture:    func() Snapshot { return Snapshot(`{"n":1}`) },
		CaptureCtx: func() Context { return Context{ObjectCount: 7} },
		Apply:      func(s Snapshot) { applied = s },
	}

	if string(p.CaptureSnapshot()) != `{"n":1}` {
		t.Error("capture not delegated")
	}
	if p.CaptureContext().ObjectCount != 7 {
		t.Error("context capture not delegated")
	}
	p.ApplySnapshot(Snapshot(`x`))
	if string(applied) != "x" {
		t.Error("apply not delegated")
	}
}
