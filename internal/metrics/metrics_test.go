package metrics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

func staticEngine() (*gravity.Engine, *body.Registry) {
	reg := body.NewRegistry()
	reg.Add(&body.Body{Mass: 10, Static: true})
	reg.Add(&body.Body{Mass: 5, Static: true, Position: mgl64.Vec3{10, 0, 0}})
	return gravity.New(reg), reg
}

func TestEnergyDriftZeroWhenFrozen(t *testing.T) {
	e, reg := staticEngine()
	m := NewEnergyDrift(e)

	for i := 0; i < 10; i++ {
		m.Observe(reg, float64(i))
	}
	if m.Value() != 0 {
		t.Errorf("Value() = %v, want 0 for a frozen system", m.Value())
	}
}

func TestEnergyDriftTracksMaximum(t *testing.T) {
	reg := body.NewRegistry()
	b := &body.Body{Mass: 2, Velocity: mgl64.Vec3{1, 0, 0}}
	reg.Add(b)
	e := gravity.New(reg)
	m := NewEnergyDrift(e)

	m.Observe(reg, 0) // initial energy 1.0
	b.Velocity = mgl64.Vec3{2, 0, 0}
	m.Observe(reg, 1) // energy 4.0, drift 3.0
	b.Velocity = mgl64.Vec3{1, 0, 0}
	m.Observe(reg, 2) // back to initial; max sticks

	if got, want := m.Value(), 3.0; got != want {
		t.Errorf("Value() = %v, want %v", got, want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("Value() after Reset = %v, want 0", m.Value())
	}
}

func TestMomentumDrift(t *testing.T) {
	reg := body.NewRegistry()
	b := &body.Body{Mass: 2, Velocity: mgl64.Vec3{1, 0, 0}}
	reg.Add(b)
	e := gravity.New(reg)
	m := NewMomentumDrift(e)

	m.Observe(reg, 0) // p = (2, 0, 0)
	b.Velocity = mgl64.Vec3{1, 3, 0}
	m.Observe(reg, 1) // p = (2, 6, 0), |dp| = 6

	if got, want := m.Value(), 6.0; got != want {
		t.Errorf("Value() = %v, want %v", got, want)
	}
}

func TestAngularMomentumDrift(t *testing.T) {
	reg := body.NewRegistry()
	b := &body.Body{Mass: 1, Position: mgl64.Vec3{1, 0, 0}, Velocity: mgl64.Vec3{0, 1, 0}}
	reg.Add(b)
	e := gravity.New(reg)
	m := NewAngularMomentumDrift(e)

	m.Observe(reg, 0) // L = (0, 0, 1)
	b.Velocity = mgl64.Vec3{0, 3, 0}
	m.Observe(reg, 1) // L = (0, 0, 3), |dL| = 2

	if got, want := m.Value(), 2.0; got != want {
		t.Errorf("Value() = %v, want %v", got, want)
	}
}

func TestDefaults(t *testing.T) {
	e, _ := staticEngine()
	defaults := Defaults(e)

	want := map[string]bool{
		"energy_drift":           true,
		"momentum_drift":         true,
		"angular_momentum_drift": true,
	}
	if len(defaults) != len(want) {
		t.Fatalf("Defaults() returned %d metrics, want %d", len(defaults), len(want))
	}
	for _, m := range defaults {
		if !want[m.Name()] {
			t.Errorf("unexpected metric %q", m.Name())
		}
	}
}
