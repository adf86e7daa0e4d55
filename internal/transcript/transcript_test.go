package transcript

import (
	"strings"
	"testing"
)

func TestAppendOrder(t *testing.T) {
	tr := New()
	tr.Append(RoleUser, "first")
	tr.Append(RoleAssistant, "second")

	snap := tr.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}
	if snap[0].Text != "first" || snap[1].Text != "second" {
		t.Errorf("order wrong: %v", snap)
	}
	if snap[0].ID == snap[1].ID {
		t.Error("entry ids not unique")
	}
}

func TestActiveEntryLifecycle(t *testing.T) {
	tr := New()
	tr.Append(RoleUser, "question")

	if err := tr.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tr.Begin(); err == nil {
		t.Error("second Begin should fail while streaming")
	}

	tr.SetActiveText("partial")
	tr.AddIndicator("Searching programs...")
	tr.SetActiveText("partial answer")

	snap := tr.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected active entry in snapshot, got %d entries", len(snap))
	}
	last := snap[1]
	if last.Text != "partial answer" {
		t.Errorf("active text = %q", last.Text)
	}
	if len(last.Indicators) != 1 || last.Indicators[0] != "Searching programs..." {
		t.Errorf("indicators = %v", last.Indicators)
	}

	tr.Finalize()
	if tr.Streaming() {
		t.Error("still streaming after Finalize")
	}
	snap = tr.Snapshot()
	if len(snap) != 2 || snap[1].Text != "partial answer" {
		t.Errorf("finalized entry lost: %v", snap)
	}

	// Mutators are no-ops once finalized.
	tr.SetActiveText("late write")
	if got := tr.Snapshot()[1].Text; got != "partial answer" {
		t.Errorf("finalized entry mutated: %q", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	tr := New()
	if err := tr.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	tr.AddIndicator("one")

	snap := tr.Snapshot()
	snap[0].Indicators[0] = "mutated"
	tr.AddIndicator("two")

	if got := tr.Snapshot()[0].Indicators[0]; got != "one" {
		t.Errorf("snapshot mutation leaked into transcript: %q", got)
	}
}

func TestHTMLExportEscapes(t *testing.T) {
	tr := New()
	tr.Append(RoleUser, "<script>**x**</script>")
	tr.Append(RoleAssistant, "fine **answer**")

	out := tr.HTML()
	if strings.Contains(out, "<script>") {
		t.Errorf("unescaped user input in export:\n%s", out)
	}
	if !strings.Contains(out, "<strong>x</strong>") {
		t.Errorf("markdown not applied:\n%s", out)
	}
	if !strings.Contains(out, `<div class="user">`) || !strings.Contains(out, `<div class="assistant">`) {
		t.Errorf("role wrappers missing:\n%s", out)
	}
}
