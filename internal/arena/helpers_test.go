package arena

// scriptRand replays fixed draws, then repeats the fallbacks
type scriptRand struct {
	floats []float64
	ints   []int
}

func (s *scriptRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

// fill sets every cell of g to t
func fill(g *Grid, t Terrain) {
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			g.Set(x, y, t)
		}
	}
}

type recordingAudio struct {
	played  []string
	stopped []string
}

func (a *recordingAudio) Play(name string) { a.played = append(a.played, name) }
func (a *recordingAudio) Stop(name string) { a.stopped = append(a.stopped, name) }
func (a *recordingAudio) StopAll()         {}
func (a *recordingAudio) SetVolume(int)    {}

func (a *recordingAudio) count(name string) int {
	n := 0
	for _, p := range a.played {
		if p == name {
			n++
		}
	}
	return n
}
