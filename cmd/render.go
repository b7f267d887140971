package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/they4kman/gosweep/v2/game"
)

var cellGlyphs = map[game.CellState]string{
	game.Unrevealed: "■",
	game.Empty:      "·",
	game.Flag:       "⚑",
	game.FlagWrong:  "✗",
	game.Mine:       "*",
	game.MineLosing: "✹",
}

var (
	hiddenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	numStyles   = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // 1
		lipgloss.NewStyle().Foreground(lipgloss.Color("41")),  // 2
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // 3
		lipgloss.NewStyle().Foreground(lipgloss.Color("99")),  // 4
		lipgloss.NewStyle().Foreground(lipgloss.Color("160")), // 5
		lipgloss.NewStyle().Foreground(lipgloss.Color("37")),  // 6
		lipgloss.NewStyle().Foreground(lipgloss.Color("248")), // 7
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")), // 8
	}
	cellStyles = map[game.CellState]lipgloss.Style{
		game.Unrevealed: hiddenStyle,
		game.Empty:      hiddenStyle,
		game.Flag:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		game.FlagWrong:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Strikethrough(true),
		game.Mine:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		game.MineLosing: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Bold(true),
	}

	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("81")).Foreground(lipgloss.Color("255"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("248")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255")).Bold(true).Padding(0, 1)
	valueStyle  = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().MarginTop(1)
)

func init() {
	for _, state := range game.CellStates {
		if state.IsNumber() && state != game.Empty {
			cellGlyphs[state] = state.String()
			cellStyles[state] = numStyles[state-game.Number1]
		}
	}
}

func cellGlyph(state game.CellState) string {
	if glyph, ok := cellGlyphs[state]; ok {
		return glyph
	}
	return "?"
}

func cellStyle(state game.CellState) lipgloss.Style {
	if style, ok := cellStyles[state]; ok {
		return style
	}
	return hiddenStyle
}

func statusStyle(state game.BoardState) lipgloss.Style {
	switch state {
	case game.Won:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	case game.Lost:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	default:
		return lipgloss.NewStyle()
	}
}

// renderBoard draws one three-column cell per board cell, highlighting the
// cursor when given
func renderBoard(view game.View, cursor *game.Coord) string {
	var board strings.Builder

	for row, cells := range view.Cells {
		for _, cell := range cells {
			content := " " + cellGlyph(cell.State) + " "
			if cursor != nil && cell.Coord() == *cursor {
				board.WriteString(cursorStyle.Render(content))
			} else {
				board.WriteString(cellStyle(cell.State).Render(content))
			}
		}
		if row < len(view.Cells)-1 {
			board.WriteString("\n")
		}
	}

	return boardStyle.Render(board.String())
}

func renderStatus(view game.View) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("MINES"),
		valueStyle.Render(fmt.Sprintf("%02d", view.MinesRemaining)),
		"  ",
		labelStyle.Render("STATUS"),
		valueStyle.Render(strings.ToUpper(view.State.String())),
	)
}
