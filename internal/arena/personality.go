package arena

import "math"

// Personality selects how an adversary offsets its pursuit target
type Personality uint8

const (
	Aggressive Personality = iota
	Cautious
	Flanking

	personalityCount = 3
)

const (
	cautiousMinOffset = 50.0
	cautiousSpread    = 50.0
	flankMinOffset    = 100.0
	flankSpread       = 150.0
)

func (p Personality) String() string {
	switch p {
	case Cautious:
		return "cautious"
	case Flanking:
		return "flanking"
	default:
		return "aggressive"
	}
}

// RandomPersonality picks uniformly among the three variants
func RandomPersonality(rng Rand) Personality {
	return Personality(rng.IntN(personalityCount))
}

// ComputeTargetOffset returns the displacement from the player position the
// adversary should steer toward.
//
// Aggressive heads straight for the player. Cautious hovers 50-100 units
// away in a random direction. Flanking swings 100-250 units out along the
// perpendicular of the adversary-to-player line.
func ComputeTargetOffset(p Personality, adversary, player Vec, rng Rand) Vec {
	switch p {
	case Flanking:
		angle := math.Atan2(player.Y-adversary.Y, player.X-adversary.X) + math.Pi/2
		dist := flankMinOffset + rng.Float64()*flankSpread
		return Vec{math.Cos(angle) * dist, math.Sin(angle) * dist}
	case Cautious:
		angle := rng.Float64() * 2 * math.Pi
		dist := cautiousMinOffset + rng.Float64()*cautiousSpread
		return Vec{math.Cos(angle) * dist, math.Sin(angle) * dist}
	default:
		return Vec{}
	}
}
