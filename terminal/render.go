package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"terrain-arena/internal/arena"
)

// One screen cell covers unitsX by unitsY world units; terminal cells are
// roughly twice as tall as wide.
const (
	unitsX    = 10.0
	unitsY    = 20.0
	hudHeight = 2
)

var (
	styleEmpty    = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleForest   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleMountain = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWater    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleDash     = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleShot     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleEnemyHit = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed)
	styleFlag     = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	stylePending  = tcell.StyleDefault.Foreground(tcell.ColorDarkRed)
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleBanner   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// ViewportFor converts a terminal size into world units, reserving the HUD rows
func ViewportFor(cols, rows int) (w, h float64) {
	return float64(cols) * unitsX, float64(max(rows-hudHeight, 1)) * unitsY
}

// toScreen maps a world point to a screen cell
func toScreen(p arena.Vec) (int, int) {
	return int(math.Floor(p.X / unitsX)), int(math.Floor(p.Y / unitsY))
}

func terrainGlyph(t arena.Terrain) (rune, tcell.Style) {
	switch t {
	case arena.Forest:
		return '♣', styleForest
	case arena.Mountain:
		return '▲', styleMountain
	case arena.Water:
		return '~', styleWater
	default:
		return '.', styleEmpty
	}
}

func personalityGlyph(p string) rune {
	switch p {
	case arena.Cautious.String():
		return 'C'
	case arena.Flanking.String():
		return 'F'
	default:
		return 'A'
	}
}

// adversaryStyle shades by hue; the hue range is a narrow band of reds
func adversaryStyle(hue float64) tcell.Style {
	g := int32(hue / arena.AdversaryHueRange * 120)
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(230, g, 40)).Bold(true)
}

// Draw renders one frame: terrain, flag, pending respawns, projectiles,
// adversaries, player, then the HUD.
func Draw(s tcell.Screen, g *arena.Grid, st arena.RoundState) {
	s.Clear()
	sw, sh := s.Size()
	fieldH := sh - hudHeight

	put := func(x, y int, r rune, style tcell.Style) {
		if x >= 0 && y >= 0 && x < sw && y < fieldH {
			s.SetContent(x, y, r, nil, style)
		}
	}

	for y := 0; y < fieldH; y++ {
		wy := (float64(y) + 0.5) * unitsY
		if wy >= g.Height() {
			break
		}
		for x := 0; x < sw; x++ {
			wx := (float64(x) + 0.5) * unitsX
			if wx >= g.Width() {
				break
			}
			r, style := terrainGlyph(arena.Empty)
			put(x, y, r, style)
		}
	}

	for _, o := range g.Obstacles() {
		r, style := terrainGlyph(o.Terrain)
		for y := int(o.Y / unitsY); float64(y)*unitsY < o.Y+o.H; y++ {
			wy := (float64(y) + 0.5) * unitsY
			if wy < o.Y || wy >= o.Y+o.H {
				continue
			}
			for x := int(o.X / unitsX); float64(x)*unitsX < o.X+o.W; x++ {
				wx := (float64(x) + 0.5) * unitsX
				if wx < o.X || wx >= o.X+o.W {
					continue
				}
				put(x, y, r, style)
			}
		}
	}

	if st.Flag != nil {
		x, y := toScreen(arena.Vec{X: st.Flag.X, Y: st.Flag.Y})
		put(x, y, '⚑', styleFlag)
	}

	for _, p := range st.Pending {
		x, y := toScreen(arena.Vec{X: p.X, Y: p.Y})
		put(x, y, rune('0'+min(p.SecsLeft, 9)), stylePending)
	}

	for _, p := range st.Projectiles {
		x, y := toScreen(arena.Vec{X: p.X, Y: p.Y})
		if p.Adversary {
			put(x, y, 'o', styleEnemyHit)
		} else {
			put(x, y, '*', styleShot)
		}
	}

	for _, a := range st.Adversaries {
		x, y := toScreen(arena.Vec{X: a.X + arena.EntitySize/2, Y: a.Y + arena.EntitySize/2})
		put(x, y, personalityGlyph(a.Personality), adversaryStyle(a.Hue))
	}

	px, py := toScreen(arena.Vec{X: st.Player.X + arena.EntitySize/2, Y: st.Player.Y + arena.EntitySize/2})
	if st.Player.Dashing {
		put(px, py, '@', styleDash)
	} else {
		put(px, py, '@', stylePlayer)
	}

	drawHUD(s, st, sw, fieldH)
	s.Show()
}

func drawHUD(s tcell.Screen, st arena.RoundState, width, top int) {
	line := fmt.Sprintf(" %s  kills %d  fire %s  dash %s",
		st.Mode, st.Kills, meter(st.Player.FireCD), meter(st.Player.DashCD))
	if st.Mode == string(arena.ModeHunt) {
		line += fmt.Sprintf("  left %d", len(st.Adversaries))
	}
	if st.Flag != nil {
		line += fmt.Sprintf("  flag %s %+4.0f  respawn %.1fs", bar(st.Flag.Progress), st.Flag.Progress, st.RespawnDelay)
	}
	drawText(s, 0, top, width, line, styleHUD)

	help := " wasd move  space dash  arrows aim  f fire  r restart  q quit"
	switch st.Status {
	case arena.StatusWon.String():
		drawText(s, 0, top+1, width, " YOU WIN - press r to play again ", styleBanner)
	case arena.StatusLost.String():
		drawText(s, 0, top+1, width, " YOU LOSE - press r to try again ", styleBanner)
	default:
		drawText(s, 0, top+1, width, help, styleHUD)
	}
}

func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// meter shows a 0..1 readiness as five blocks
func meter(v float64) string {
	n := int(math.Round(arena.Clamp(v, 0, 1) * 5))
	out := make([]rune, 5)
	for i := range out {
		if i < n {
			out[i] = '■'
		} else {
			out[i] = '□'
		}
	}
	return string(out)
}

// bar shows capture progress -100..100 centred on zero
func bar(progress float64) string {
	const half = 5
	n := int(math.Round(math.Abs(progress) / arena.CaptureMax * half))
	out := []rune("[" + "     " + "|" + "     " + "]")
	for i := 1; i <= n; i++ {
		if progress > 0 {
			out[half+1+i] = '>'
		} else {
			out[half+1-i] = '<'
		}
	}
	return string(out)
}
