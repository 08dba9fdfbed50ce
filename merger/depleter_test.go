package merger

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kvsearch/qexec/flow"
	"github.com/kvsearch/qexec/qerr"
	"github.com/kvsearch/qexec/sresult"
)

// erroringStage reports StatusError on its first Next call, after setting
// exec's shared error slot, as a real stage would.
type erroringStage struct {
	exec *flow.ExecContext
	err  *qerr.QError
}

func (e *erroringStage) Next(*sresult.SearchResult) flow.Status {
	e.exec.SetError(e.err)
	return flow.StatusError
}
func (e *erroringStage) Free()                  {}
func (e *erroringStage) Upstream() flow.Stage   { return nil }
func (e *erroringStage) Behavior() flow.Behavior { return 0 }
func (e *erroringStage) Type() flow.Type         { return flow.TypeSource }

func TestDepleterFillTagsSubquerySideOnVectorNotAllowed(t *testing.T) {
	exec := flow.NewExecContext(time.Time{}, flow.PolicyReturn)
	stage := &erroringStage{exec: exec, err: qerr.New(qerr.CodeVectorNotAllowed, "vector scoring disallowed")}

	var barrier sync.WaitGroup
	barrier.Add(1)
	d := NewDepleter(stage, exec, &barrier, "filter")

	err := d.Fill()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !qerr.Is(err, qerr.CodeVectorNotAllowed) {
		t.Fatalf("expected a VECTOR_NOT_ALLOWED error, got %v", err)
	}
	if err.Error() == stage.err.Error() {
		t.Fatalf("expected the error to be tagged with the subquery side, got unmodified message %q", err.Error())
	}
	if want := "(filter side)"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error message to contain %q, got %q", want, err.Error())
	}
}
