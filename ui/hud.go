package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/flip-match/game"
)

const helpText = "n new  1/2/3 size  l load seed  s share  r resume  q quit"

var (
	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(0x26, 0x26, 0x40))
	winStyle    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewRGBColor(0xe4, 0xae, 0x39)).Bold(true)
	footerStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	promptStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// HUDText is the status line: counters while playing, the result once won
func (a *App) HUDText() string {
	s := a.session
	if res := s.Result(); res != nil && s.GameOver() {
		return fmt.Sprintf(" You won! %d moves in %s  Efficiency: %s ",
			res.Moves, game.FormatTime(res.Time), game.Rate(res.Moves, res.Time))
	}
	id := "-"
	if gs := s.Seed(); gs != nil {
		id = gs.ID
	}
	return fmt.Sprintf(" Moves: %d  Time: %s  Pairs: %d/%d  %s  Seed: %s ",
		s.Moves(), s.FormattedTime(), s.PairsFound(), s.TotalPairs(),
		s.Layout().Difficulty(), id)
}

// FooterText is the prompt, the last message or the key help
func (a *App) FooterText() string {
	switch {
	case a.mode == modePrompt:
		return " Seed: " + string(a.input) + "_"
	case a.message != "":
		return " " + a.message
	default:
		return " " + helpText
	}
}

func (a *App) drawHUD() {
	style := hudStyle
	if a.session.GameOver() {
		style = winStyle
	}
	a.fillRow(hudRow, style)
	a.drawString(0, hudRow, a.HUDText(), style)
}

func (a *App) drawFooter() {
	row := a.rows - footerGap
	if row <= hudRow {
		return
	}
	style := footerStyle
	if a.mode == modePrompt {
		style = promptStyle
	}
	a.fillRow(row, tcell.StyleDefault)
	a.drawString(0, row, a.FooterText(), style)
}

func (a *App) fillRow(row int, style tcell.Style) {
	for x := 0; x < a.cols; x++ {
		a.screen.SetContent(x, row, ' ', nil, style)
	}
}

// drawString writes s from col, truncated at the screen edge
func (a *App) drawString(col, row int, s string, style tcell.Style) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > a.cols {
			return
		}
		a.screen.SetContent(col, row, r, nil, style)
		col += w
	}
}
