// Package fluid is the numerical core of the particle fluid approximation.
//
// A fixed set of point masses lives inside a rectangular box bounded by four
// walls. Each tick the host calls [Step], which runs, in order:
//
//   - [Integrate]: position += velocity * dt
//   - the registered [Force] hooks ([Gravity] is disabled by default)
//   - [ResolveCollisions]: AABB overlap against every wall, reflection with restitution
//
// Density is estimated with the cubic [Influence] kernel through [DensityAt]
// or a [DensityField]. It is a diagnostic query and never feeds back into
// particle acceleration.
//
// # Example
//
//	walls, _ := fluid.NewBoxWalls(fluid.DefaultBounds(), 5)
//	particles := fluid.SpawnGrid(fluid.SpawnOptions{Count: 36, Radius: 5, Spacing: 0.5, Mass: 1})
//	params := fluid.Params{ParticleRadius: 5, WallThickness: 5, Restitution: 0.4}
//	if err := fluid.Step(particles, walls, params, 1.0/60); err != nil {
//	    // corrupted state or invalid dt
//	}
//	rho := fluid.DensityAt(r2.Vec{}, particles, 1, 40)
//
// # Thread Safety
//
// Nothing in this package holds shared state. The particle slice passed to
// [Step] must not be mutated by anyone else for the duration of the call.
package fluid
