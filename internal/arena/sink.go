package arena

// Cue names the round asks the audio sink to play
const (
	CueIntro    = "intro"
	CueGameplay = "gameplay"
	CueKill     = "kill"
	CueWin      = "win"
	CueLose     = "lose"
)

// AudioSink plays named cues. Calls are fire-and-forget.
type AudioSink interface {
	Play(name string)
	Stop(name string)
	StopAll()
	SetVolume(percent int)
}

type nopAudio struct{}

func (nopAudio) Play(string)   {}
func (nopAudio) Stop(string)   {}
func (nopAudio) StopAll()      {}
func (nopAudio) SetVolume(int) {}

// NopAudio discards every cue
var NopAudio AudioSink = nopAudio{}
