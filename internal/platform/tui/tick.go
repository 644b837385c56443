// Package tui provides the Bubble Tea integration for Dicefall.
// It handles the terminal UI loop, input mapping, menus, the scoreboard and
// the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultTickRate is used when a runtime config carries no rate.
const defaultTickRate = 60

// TickMsg advances the game hosted by the tick loop that scheduled it.
type TickMsg struct {
	Time time.Time
	Loop uint64
}

var loops atomic.Uint64

// newLoop returns a fresh tick loop id. A model only acts on ticks carrying
// its own id, so a tick still in flight from a game the session already left
// cannot start a second loop in the next one.
func newLoop() uint64 {
	return loops.Add(1)
}

// tickInterval converts a tick rate in Hz into the delay between ticks.
func tickInterval(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = defaultTickRate
	}
	return time.Second / time.Duration(tickRate)
}

// tickCmd schedules the next tick of loop.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	return tea.Tick(tickInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Loop: loop}
	})
}
