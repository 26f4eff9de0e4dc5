package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"terrain-arena/internal/arena"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func rowText(s tcell.Screen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteRune(runeAt(s, x, y))
	}
	return b.String()
}

func TestViewportFor(t *testing.T) {
	w, h := ViewportFor(80, 24)
	if w != 800 || h != 440 {
		t.Errorf("expected 800x440, got %vx%v", w, h)
	}
	if _, h := ViewportFor(80, 1); h != unitsY {
		t.Errorf("tiny terminal should keep one row, got %v", h)
	}
}

func TestDrawTerrainGlyphs(t *testing.T) {
	s := newScreen(t, 40, 12)
	g := arena.NewGrid(8, 4, 50)
	g.Set(0, 0, arena.Forest)
	g.Set(1, 0, arena.Mountain)
	g.Set(2, 0, arena.Water)

	Draw(s, g, arena.RoundState{Mode: "hunt", Status: "playing", Player: arena.PlayerState{X: 300, Y: 150}})

	// cell (0,0) spans world x 0..50, screen columns 0..4, rows 0..1
	if r := runeAt(s, 0, 0); r != '♣' {
		t.Errorf("forest glyph = %q", r)
	}
	if r := runeAt(s, 5, 1); r != '▲' {
		t.Errorf("mountain glyph = %q", r)
	}
	if r := runeAt(s, 12, 0); r != '~' {
		t.Errorf("water glyph = %q", r)
	}
	if r := runeAt(s, 20, 3); r != '.' {
		t.Errorf("empty glyph = %q", r)
	}
	// grid is 400x200 world units: 40 columns, 10 rows
	if r := runeAt(s, 39, 9); r != '.' {
		t.Errorf("last world cell = %q", r)
	}
}

func TestDrawEntities(t *testing.T) {
	s := newScreen(t, 40, 12)
	g := arena.NewGrid(8, 4, 50)
	st := arena.RoundState{
		Mode:   "capture",
		Status: "playing",
		Player: arena.PlayerState{X: 100, Y: 40, FireCD: 1, DashCD: 0.4},
		Adversaries: []arena.AdversaryState{
			{ID: 1, X: 200, Y: 40, Personality: "aggressive"},
			{ID: 2, X: 250, Y: 40, Personality: "cautious"},
			{ID: 3, X: 300, Y: 40, Personality: "flanking"},
		},
		Projectiles: []arena.ProjectileState{{X: 55, Y: 5}, {X: 75, Y: 5, Adversary: true}},
		Flag:        &arena.FlagState{X: 350, Y: 120, Progress: 40},
		Pending:     []arena.PendingState{{ID: 4, X: 15, Y: 150, SecsLeft: 3}},
	}
	Draw(s, g, st)

	checks := []struct {
		x, y int
		want rune
	}{
		{11, 2, '@'}, // center (110, 50)
		{21, 2, 'A'},
		{26, 2, 'C'},
		{31, 2, 'F'},
		{5, 0, '*'},
		{7, 0, 'o'},
		{35, 6, '⚑'},
		{1, 7, '3'},
	}
	for _, c := range checks {
		if r := runeAt(s, c.x, c.y); r != c.want {
			t.Errorf("(%d,%d) = %q, want %q", c.x, c.y, r, c.want)
		}
	}

	hud := rowText(s, 10, 40)
	if !strings.Contains(hud, "capture") || !strings.Contains(hud, "kills 0") {
		t.Errorf("HUD missing mode or kills: %q", hud)
	}
}

func TestDrawBanner(t *testing.T) {
	s := newScreen(t, 60, 12)
	g := arena.NewGrid(4, 2, 50)
	Draw(s, g, arena.RoundState{Mode: "hunt", Status: "won"})
	if row := rowText(s, 11, 60); !strings.Contains(row, "YOU WIN") {
		t.Errorf("expected win banner, got %q", row)
	}
	Draw(s, g, arena.RoundState{Mode: "hunt", Status: "lost"})
	if row := rowText(s, 11, 60); !strings.Contains(row, "YOU LOSE") {
		t.Errorf("expected lose banner, got %q", row)
	}
}

func TestMeterAndBar(t *testing.T) {
	if got := meter(1); got != "■■■■■" {
		t.Errorf("full meter = %q", got)
	}
	if got := meter(0.4); got != "■■□□□" {
		t.Errorf("partial meter = %q", got)
	}
	if got := bar(100); got != "[     |>>>>>]" {
		t.Errorf("player bar = %q", got)
	}
	if got := bar(-40); got != "[   <<|     ]" {
		t.Errorf("adversary bar = %q", got)
	}
}
