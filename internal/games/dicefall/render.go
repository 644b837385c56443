package dicefall

import (
	"fmt"

	"github.com/vovakirdan/dicefall/internal/core"
	"github.com/vovakirdan/dicefall/internal/games/dicefall/engine"
)

// Layout constants
const (
	cellW = 3  // Characters per die: marker + two digits
	hudW  = 28 // Width of the side panel
	gapW  = 2
)

// dieColors maps die colors to screen colors.
var dieColors = map[engine.Color]core.Color{
	engine.ColorRed:    core.ColorRed,
	engine.ColorGreen:  core.ColorGreen,
	engine.ColorBlue:   core.ColorBlue,
	engine.ColorYellow: core.ColorYellow,
	engine.ColorPurple: core.ColorPurple,
	engine.ColorBlack:  core.ColorBlack,
}

// wellRect returns the outer rectangle of the well. The inner area holds
// the board rows plus the spawn row on top.
func wellRect(w, h, screenW, screenH int) core.Rect {
	outerW := w*cellW + 2
	outerH := h + 3
	total := outerW + gapW + hudW
	x := max(0, (screenW-total)/2)
	y := max(0, (screenH-outerH)/2)
	return core.NewRect(x, y, outerW, outerH)
}

// MinScreenSize returns the smallest screen that fits a w x h well.
func MinScreenSize(w, h int) (int, int) {
	return w*cellW + 2 + gapW + hudW, h + 3
}

// cellText formats a die as three characters: kind marker and value.
func cellText(d *engine.Die) string {
	marker := ' '
	switch {
	case d.Black:
		marker = '#'
	case d.Wild:
		marker = '*'
	case d.Booster == engine.BoosterStar:
		marker = '+'
	case d.Booster == engine.BoosterBomb:
		marker = '!'
	case d.Booster == engine.BoosterMultiplier:
		marker = 'x'
	}
	return fmt.Sprintf("%c%-2d", marker, d.Value)
}

// Render draws the well, the falling piece, the HUD and overlays.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.eng == nil {
		msg := "No game running"
		if g.err != nil {
			msg = g.err.Error()
		}
		drawCenteredMessage(dst, "CONFIG ERROR", msg)
		return
	}

	cfg := g.eng.Config()
	minW, minH := MinScreenSize(cfg.Width, cfg.Height)
	if dst.Width() < minW || dst.Height() < minH {
		drawCenteredMessage(dst, "Terminal too small", fmt.Sprintf("need %dx%d", minW, minH))
		return
	}

	snap := g.eng.Snapshot()
	well := wellRect(cfg.Width, cfg.Height, dst.Width(), dst.Height())
	g.drawWell(dst, well, snap)
	g.drawHUD(dst, well.Right()+gapW, well.Y, snap)

	switch {
	case snap.Over:
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("%s - score %d - R to restart", overReason(g.lastReason), snap.Score))
	case g.paused:
		drawCenteredMessage(dst, "PAUSED", "P to resume")
	}
}

// boardToScreen converts a board position to the top-left screen cell of
// its die. Y=0 is the bottom row of the well.
func boardToScreen(well core.Rect, h int, p engine.Pos) (int, int) {
	return well.X + 1 + p.X*cellW, well.Y + 1 + (h - p.Y)
}

func (g *Game) drawWell(dst *core.Screen, well core.Rect, snap engine.Snapshot) {
	w, h := snap.Board.W, snap.Board.H

	dst.DrawBox(well, core.ColorGray)

	// Spawn row
	for x := 0; x < w; x++ {
		sx, sy := boardToScreen(well, h, engine.P(x, h))
		dst.DrawTextColored(sx, sy, " · ", core.ColorGray)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := boardToScreen(well, h, engine.P(x, y))
			d := snap.Board.At(x, y)
			if d == nil {
				dst.DrawTextColored(sx, sy, " . ", core.ColorGray)
				continue
			}
			dst.DrawTextColored(sx, sy, cellText(d), dieColors[d.Color])
		}
	}

	for _, u := range snap.Falling {
		if u.Pos.Y > h || u.Pos.X < 0 || u.Pos.X >= w {
			continue
		}
		sx, sy := boardToScreen(well, h, u.Pos)
		dst.DrawTextColored(sx, sy, cellText(u.Die), dieColors[u.Die.Color])
	}
}

func (g *Game) drawHUD(dst *core.Screen, x, y int, snap engine.Snapshot) {
	row := y
	line := func(text string, c core.Color) {
		dst.DrawTextColored(x, row, text, c)
		row++
	}

	line(g.Title(), core.ColorCyan)
	line(fmt.Sprintf("Score: %d", snap.Score), core.ColorWhite)
	line(fmt.Sprintf("Chain: %d  Max: %d", snap.LastChain, snap.Stats.MaxChain), core.ColorDefault)
	line(breakdownText(snap.LastBreakdown), core.ColorGray)
	if g.bannerTicks > 0 && g.banner != "" {
		line(g.banner, core.ColorYellow)
	} else {
		line("", core.ColorDefault)
	}
	row++

	line("Next:", core.ColorDefault)
	g.drawNext(dst, x, row, snap.Next)
	row += 4

	line(fmt.Sprintf("Pieces: %d", snap.Stats.Pieces), core.ColorGray)
	line(fmt.Sprintf("Cleared: %d", snap.Stats.DiceCleared), core.ColorGray)
	line(fmt.Sprintf("Ultimate: %d", snap.Stats.UltimateCombos), core.ColorGray)
	row++
	line("←/→ move  ↑ rotate", core.ColorGray)
	line("↓ soft  space hard drop", core.ColorGray)
	line("P pause  Q quit", core.ColorGray)
}

// breakdownText summarises the last pass as "chained xultimate +booster".
// Chained already carries the per-level chain factors.
func breakdownText(b engine.ScoreBreakdown) string {
	if b.Total <= 0 {
		return ""
	}
	return fmt.Sprintf("%d x%d +%d", b.Chained, b.UltimateMultiplier, b.BoosterModifier)
}

// drawNext draws the preview piece in a 4-row area, offset 0 at the bottom.
func (g *Game) drawNext(dst *core.Screen, x, y int, next engine.NextPiece) {
	for i, off := range next.Shape.Offsets {
		if i >= len(next.Dice) || off.Y > 3 {
			continue
		}
		d := next.Dice[i]
		dst.DrawTextColored(x+off.X*cellW, y+3-off.Y, cellText(&d), dieColors[d.Color])
	}
}

func overReason(r engine.GameOverReason) string {
	if r == engine.GameOverOverflow {
		return "well overflowed"
	}
	return "spawn blocked"
}

// drawCenteredMessage draws a boxed message in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxW = min(boxW, dst.Width())
	boxH := 5
	boxX := max(0, (dst.Width()-boxW)/2)
	boxY := max(0, (dst.Height()-boxH)/2)

	r := core.NewRect(boxX, boxY, boxW, boxH)
	dst.FillRect(r, ' ')
	dst.DrawBox(r, core.ColorWhite)

	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, core.ColorYellow)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
