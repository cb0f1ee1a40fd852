package gravity

import (
	"testing"
)

func benchEngine(n int, approximate bool) *Engine {
	e := newTestEngine(randomBodies(n, 42)...)
	e.UseApproximation = approximate
	return e
}

func BenchmarkStepDirect256(b *testing.B) {
	e := benchEngine(256, false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step(0.01)
	}
}

func BenchmarkStepTree256(b *testing.B) {
	e := benchEngine(256, true)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step(0.01)
	}
}

func BenchmarkStepDirect1024(b *testing.B) {
	e := benchEngine(1024, false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step(0.01)
	}
}

func BenchmarkStepTree1024(b *testing.B) {
	e := benchEngine(1024, true)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step(0.01)
	}
}

func BenchmarkTreeBuild1024(b *testing.B) {
	bodies := randomBodies(1024, 42)
	var tree Octree
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Build(bodies)
		tree.Release()
	}
}
