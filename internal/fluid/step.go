package fluid

// Params are the per-tick parameters of a step.
type Params struct {
	ParticleRadius float64
	WallThickness  float64
	Restitution    float64
	Gravity        Gravity
	// Extra forces run after gravity in slice order.
	Forces []Force
}

// Step advances particles by one tick: integration, forces, then wall
// resolution against every wall. Collision resolution sees post-integration
// positions.
//
// The particle slice is validated before anything is mutated; a NaN or Inf
// component fails the step with a *StepError wrapping ErrInvalidState. The
// result is validated again so that corruption produced inside the step is
// reported on the tick where it happened.
func Step(particles []Particle, walls []Wall, params Params, dt float64) error {
	if err := CheckTimeStep(dt); err != nil {
		return err
	}
	if err := validate(particles); err != nil {
		return err
	}

	for i := range particles {
		advance(&particles[i], dt)
	}

	for i := range particles {
		params.Gravity.Apply(&particles[i], dt)
		for _, f := range params.Forces {
			f.Apply(&particles[i], dt)
		}
	}

	ws := WallSystem{
		Walls:          walls,
		Thickness:      params.WallThickness,
		Restitution:    params.Restitution,
		ParticleRadius: params.ParticleRadius,
	}
	ws.ResolveAll(particles)

	return validate(particles)
}

func validate(particles []Particle) error {
	for i := range particles {
		if !particles[i].IsValid() {
			return &StepError{Particle: i, State: particles[i], Wrapped: ErrInvalidState}
		}
	}
	return nil
}
