// Package ui hosts the interactive terminal views for live tailing and
// decision playback, built on Bubble Tea.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/swarmscope/swarmscope/internal/filter"
	"github.com/swarmscope/swarmscope/internal/playback"
	"github.com/swarmscope/swarmscope/internal/sink"
)

// Program wraps a running Bubble Tea program and exposes it as a render
// sink. Frames are pushed in with Send; the program never reads state back
// out of the pipeline or controller.
type Program struct {
	prog *tea.Program
}

// NewTailProgram builds the live-tail view. basePred is the predicate the
// operator asked for on the command line; onPredicate is invoked when the
// view narrows or restores it (for example the errors-only toggle).
func NewTailProgram(title string, basePred filter.Predicate, onPredicate func(filter.Predicate)) *Program {
	model := newTailModel(title, basePred, onPredicate)
	return &Program{prog: tea.NewProgram(model, tea.WithAltScreen())}
}

// NewReplayProgram builds the playback view around ctrl. Key presses call
// straight into the controller; resulting frames come back through PushReplay.
func NewReplayProgram(title string, ctrl *playback.Controller) *Program {
	model := newReplayModel(title, ctrl)
	return &Program{prog: tea.NewProgram(model, tea.WithAltScreen())}
}

// Run blocks until the operator quits the view.
func (p *Program) Run() error {
	_, err := p.prog.Run()
	return err
}

// Quit asks the view to shut down.
func (p *Program) Quit() { p.prog.Quit() }

// PushLive implements sink.LiveSink.
func (p *Program) PushLive(f sink.LiveFrame) {
	p.prog.Send(liveFrameMsg{frame: f})
}

// PushReplay implements sink.ReplaySink.
func (p *Program) PushReplay(f sink.ReplayFrame) {
	p.prog.Send(replayFrameMsg{frame: f})
}
