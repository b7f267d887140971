package cmd

import (
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/they4kman/gosweep/v2/game"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play a game in the terminal. Move with the arrow keys (or hjkl),
space reveals, f flags, c chords, n starts a new game and q quits.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	session, err := game.NewGame(gameConfig)
	if err != nil {
		return err
	}

	var opts []tea.ProgramOption
	if in := cmd.InOrStdin(); in != os.Stdin {
		opts = append(opts, tea.WithInput(in))
	} else {
		opts = append(opts, tea.WithAltScreen())
	}
	if out := cmd.OutOrStdout(); out != os.Stdout {
		opts = append(opts, tea.WithOutput(out))
	}

	_, err = tea.NewProgram(newPlayModel(session), opts...).Run()
	return err
}

// playModel keeps a copy of the board view, refreshed by the session's
// listener whenever a command changes the board
type playModel struct {
	session *game.Game
	view    game.View
	cursor  game.Coord
	status  string

	keys keyMap
	help help.Model
}

func newPlayModel(session *game.Game) *playModel {
	model := &playModel{
		session: session,
		view:    session.View(),
		cursor:  game.Coord{Row: session.Board().Rows() / 2, Col: session.Board().Cols() / 2},
		keys:    keys,
		help:    help.New(),
	}
	session.Subscribe(game.ListenerFunc(model.boardChanged))
	return model
}

func (model *playModel) boardChanged(event game.Event) {
	model.view = event.View

	switch {
	case event.Kind == game.EventReset:
		model.status = ""
		model.cursor = model.clamp(model.cursor)
	case event.Result.State == game.Won:
		model.status = "You won!"
	case event.Result.State == game.Lost:
		model.status = "Boom."
	}
}

func (model *playModel) Init() tea.Cmd {
	return nil
}

func (model *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		model.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, model.keys.Quit):
			return model, tea.Quit
		case key.Matches(msg, model.keys.Up):
			model.move(-1, 0)
		case key.Matches(msg, model.keys.Down):
			model.move(1, 0)
		case key.Matches(msg, model.keys.Left):
			model.move(0, -1)
		case key.Matches(msg, model.keys.Right):
			model.move(0, 1)
		case key.Matches(msg, model.keys.Reveal):
			model.session.Apply(model.cursor.Click())
		case key.Matches(msg, model.keys.Flag):
			model.session.Apply(model.cursor.RightClick())
		case key.Matches(msg, model.keys.Chord):
			model.session.Apply(model.cursor.MiddleClick())
		case key.Matches(msg, model.keys.NewGame):
			if err := model.session.NewRound(); err != nil {
				model.status = err.Error()
			}
		}
	}

	return model, nil
}

func (model *playModel) move(dRow, dCol int) {
	model.cursor = model.clamp(model.cursor.Add(game.Coord{Row: dRow, Col: dCol}))
}

func (model *playModel) clamp(coord game.Coord) game.Coord {
	coord.Row = max(0, min(coord.Row, model.view.Rows-1))
	coord.Col = max(0, min(coord.Col, model.view.Cols-1))
	return coord
}

func (model *playModel) View() string {
	parts := []string{
		renderBoard(model.view, &model.cursor),
		renderStatus(model.view),
	}
	if model.status != "" {
		parts = append(parts, statusStyle(model.view.State).Render(model.status))
	}
	parts = append(parts, helpStyle.Render(model.help.View(model.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func init() {
	rootCmd.AddCommand(playCmd)
}
