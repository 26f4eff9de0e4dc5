package arena

import (
	"math"
	"time"
)

const (
	RespawnBaseDelay = 5000 * time.Millisecond
	RespawnMinDelay  = 1500 * time.Millisecond
	respawnRounding  = 100 * time.Millisecond

	SpawnPlayerClearance = 200.0
	RespawnFlagClearance = 150.0
	spawnSearchAttempts  = 100
	noObjectiveDistance  = 1000.0
)

// RespawnRecord remembers a defeated adversary until it comes back
type RespawnRecord struct {
	ID          int
	Personality Personality
	Hue         float64
	CanFire     bool
	DiedAt      time.Duration
	LastPos     Vec
}

// RespawnDelay interpolates between the minimum and base delay by the share
// of adversaries still alive, rounded to 100ms.
func RespawnDelay(alive, total int) time.Duration {
	var d float64
	switch {
	case total <= 0 || alive >= total:
		d = float64(RespawnBaseDelay)
	case alive <= 1:
		d = float64(RespawnMinDelay)
	default:
		frac := float64(alive) / float64(total)
		d = float64(RespawnMinDelay) + float64(RespawnBaseDelay-RespawnMinDelay)*frac
	}
	step := float64(respawnRounding)
	return time.Duration(math.Round(d/step) * step)
}

// Scheduler owns the dead list and the current dynamic delay
type Scheduler struct {
	Pending []RespawnRecord
	Delay   time.Duration
}

// NewScheduler starts with the base delay
func NewScheduler() *Scheduler {
	return &Scheduler{Delay: RespawnBaseDelay}
}

// Recompute refreshes the delay from the live roster size
func (s *Scheduler) Recompute(alive int) {
	if len(s.Pending) == 0 {
		return
	}
	s.Delay = RespawnDelay(alive, alive+len(s.Pending))
}

// Record adds a freshly defeated adversary and refreshes the delay
func (s *Scheduler) Record(a *Adversary, now time.Duration, alive int) {
	s.Pending = append(s.Pending, RespawnRecord{
		ID:          a.ID,
		Personality: a.Personality,
		Hue:         a.Hue,
		CanFire:     a.CanFire,
		DiedAt:      now,
		LastPos:     a.Pos,
	})
	s.Recompute(alive)
}

// Due removes and returns every record whose death time plus the current
// delay has passed. The delay is recomputed after each release, so later
// records are judged against the updated value. alive is the roster size
// before any release.
func (s *Scheduler) Due(now time.Duration, alive int) []RespawnRecord {
	s.Recompute(alive)
	var out []RespawnRecord
	for i := len(s.Pending) - 1; i >= 0; i-- {
		r := s.Pending[i]
		if now-r.DiedAt < s.Delay {
			continue
		}
		out = append(out, r)
		s.Pending = append(s.Pending[:i], s.Pending[i+1:]...)
		alive++
		s.Recompute(alive)
	}
	return out
}

// Remaining is how long until a record respawns under the current delay
func (s *Scheduler) Remaining(r RespawnRecord, now time.Duration) time.Duration {
	left := s.Delay - (now - r.DiedAt)
	if left < 0 {
		return 0
	}
	return left
}

// SpawnAwayFrom samples Clear positions until one is farther than
// minPlayer from player and farther than minFlag from the flag. A nil flag
// counts as far away. On exhaustion it returns the candidate farthest from
// the player and false.
func SpawnAwayFrom(g *Grid, rng Rand, player Vec, minPlayer float64, flag *Objective, minFlag float64) (Vec, bool) {
	var best Vec
	bestDist := -1.0
	for i := 0; i < spawnSearchAttempts; i++ {
		pos, _ := g.RandomEmptyPosition(EntitySize, rng)
		pd := Distance(pos, player)
		fd := noObjectiveDistance
		if flag != nil {
			fd = Distance(pos, flag.Pos)
		}
		if pd > minPlayer && fd > minFlag {
			return pos, true
		}
		if pd > bestDist {
			best, bestDist = pos, pd
		}
	}
	return best, false
}
