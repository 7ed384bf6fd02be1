package domain

// Float64Source is the random variate supply the walk draws from.
// *math/rand.Rand satisfies it.
type Float64Source interface {
	Float64() float64
}

// Walk is a biased random walk over battery levels. Each step rises with
// probability UpProbability by floor(u*(MaxRise+1)), otherwise it drops by
// floor(u*(MaxDrop+1)). With the defaults the mean drift is negative, which
// models a discharging battery with occasional upticks.
type Walk struct {
	UpProbability float64
	MaxRise       int
	MaxDrop       int
}

// DefaultWalk returns the 30% up (0..4) / 70% down (0..7) walk
func DefaultWalk() Walk {
	return Walk{
		UpProbability: 0.3,
		MaxRise:       4,
		MaxDrop:       7,
	}
}

// Next returns the level following previous, clamped to [MinLevel, MaxLevel]
func (w Walk) Next(previous int, rnd Float64Source) int {
	var delta int
	if rnd.Float64() > 1-w.UpProbability {
		delta = int(rnd.Float64() * float64(w.MaxRise+1))
	} else {
		delta = -int(rnd.Float64() * float64(w.MaxDrop+1))
	}
	return ClampLevel(previous + delta)
}
