package integrators

import (
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

func benchmarkIntegrator(b *testing.B, integ dynamo.Integrator) {
	dyn := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkEuler(b *testing.B)    { benchmarkIntegrator(b, NewEuler()) }
func BenchmarkRK4(b *testing.B)      { benchmarkIntegrator(b, NewRK4()) }
func BenchmarkRK45(b *testing.B)     { benchmarkIntegrator(b, NewRK45()) }
func BenchmarkVerlet(b *testing.B)   { benchmarkIntegrator(b, NewVerlet()) }
func BenchmarkLeapfrog(b *testing.B) { benchmarkIntegrator(b, NewLeapfrog()) }
