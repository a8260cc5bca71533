package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressFinishPrintsMessage(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out)
	p.Start(3)
	for i := 0; i < 3; i++ {
		p.Increment()
	}
	p.Finish("\tProfiles Generated")
	if !strings.Contains(out.String(), "Profiles Generated") {
		t.Fatalf("expected finish message, got %q", out.String())
	}
}

func TestProgressFinishWithoutStart(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out)
	p.Increment()
	p.Finish("done")
	if out.String() != "done\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
