package phys

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestMakePairCanonical(t *testing.T) {
	if MakePair(5, 2) != MakePair(2, 5) {
		t.Error("expected (5,2) and (2,5) to compare equal")
	}
	p := MakePair(7, 3)
	if p.A != 3 || p.B != 7 {
		t.Errorf("expected A < B, got %+v", p)
	}
}

func TestStateFlags(t *testing.T) {
	var f StateFlags
	f = f.Set(FlagGrounded, true)
	f = f.Set(FlagInWater, true)

	if !f.Has(FlagGrounded) || !f.Has(FlagInWater) {
		t.Error("expected both flags set")
	}
	if f.Has(FlagOnLadder) {
		t.Error("ladder flag should be clear")
	}

	f = f.Set(FlagGrounded, false)
	if f.Has(FlagGrounded) {
		t.Error("grounded should be cleared")
	}
	if !f.Has(FlagInWater) {
		t.Error("clearing one flag must not clear another")
	}
}

func TestTickStatsAddReset(t *testing.T) {
	var total TickStats
	total.Add(TickStats{Contacts: 3, ResolveMicros: 10})
	total.Add(TickStats{Contacts: 2, ResolveMicros: 5, SubstepsRun: 1})

	if total.Contacts != 5 || total.ResolveMicros != 15 || total.SubstepsRun != 1 {
		t.Errorf("unexpected totals: %+v", total)
	}

	total.Reset()
	if total != (TickStats{}) {
		t.Errorf("expected zeroed stats, got %+v", total)
	}
}

func TestIsFiniteVec(t *testing.T) {
	if !IsFiniteVec(mgl32.Vec3{1, -2, 0}) {
		t.Error("finite vector reported non-finite")
	}
	if IsFiniteVec(mgl32.Vec3{math32.NaN(), 0, 0}) {
		t.Error("NaN not detected")
	}
	if IsFiniteVec(mgl32.Vec3{0, math32.Inf(1), 0}) {
		t.Error("Inf not detected")
	}
}

func TestEntityIDValid(t *testing.T) {
	if InvalidEntity.Valid() {
		t.Error("InvalidEntity must not be valid")
	}
	if !EntityID(0).Valid() {
		t.Error("zero id is a valid slot")
	}
}
