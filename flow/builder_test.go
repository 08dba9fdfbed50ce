package flow

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/sresult"
	"github.com/kvsearch/qexec/value"
)

func TestBuildStepVectorNormalizerWiresStage(t *testing.T) {
	l := lookup.New(nil)
	distKey := l.GetReadKey("__vector_distance", true)

	r := sresult.New(l.RowLen())
	r.Row.Set(distKey.DstIdx(), value.NewNumber(0))

	src := newFakeSource(r)
	step := PlanStep{
		Kind:               StepVectorNormalizer,
		VectorField:        "__vector_distance",
		DistanceFieldAlias: "similarity",
		VectorMetric:       qdrant.Distance_Euclid,
	}

	stage, err := buildStep(src, step, l, Deps{}, nil)
	if err != nil {
		t.Fatalf("buildStep(StepVectorNormalizer) returned an error: %v", err)
	}
	if _, ok := stage.(*VectorNormalizerStage); !ok {
		t.Fatalf("want a *VectorNormalizerStage, got %T", stage)
	}
	defer stage.Free()

	simKey := l.GetReadKey("similarity", true)
	res := sresult.New(0)
	if st := stage.Next(res); st != StatusOK {
		t.Fatalf("want StatusOK, got %v", st)
	}
	got := value.NumberVal(res.Row.Get(simKey.DstIdx()))
	if got != 1 {
		t.Fatalf("zero Euclidean distance should normalise to similarity 1, got %v", got)
	}
}
