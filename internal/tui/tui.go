package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pokedetective/internal/catalog"
	"github.com/robalobadob/pokedetective/internal/game"
)

type model struct {
	sess    *game.Session
	schema  catalog.Schema
	input   textinput.Model
	pending *game.Input
	cursor  int

	snap    game.Snapshot
	updates <-chan game.Snapshot
	cancel  func()

	message string
	isError bool
	width   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFCB05")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87D7FF"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFCB05")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	signalStyles = map[game.Signal]lipgloss.Style{
		game.SignalMatch:   cellStyle.Foreground(lipgloss.Color("#5FD75F")),
		game.SignalPartial: cellStyle.Foreground(lipgloss.Color("#FFD75F")),
		game.SignalNoMatch: cellStyle.Foreground(lipgloss.Color("#FF5F5F")),
		game.SignalHigher:  cellStyle.Foreground(lipgloss.Color("#FF5F5F")),
		game.SignalLower:   cellStyle.Foreground(lipgloss.Color("#FF5F5F")),
	}
)

// NewModel wraps sess in a bubbletea model. The model subscribes to the
// session and keeps the subscription across resets.
func NewModel(sess *game.Session) model {
	ti := textinput.New()
	ti.Placeholder = "Who's that creature?"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 30

	updates, cancel := sess.Subscribe(16)
	m := model{
		sess:    sess,
		schema:  sess.Catalog().Schema(),
		input:   ti,
		snap:    sess.Snapshot(),
		updates: updates,
		cancel:  cancel,
	}
	m.pending = game.NewInput(sess.Suggest)
	return m
}

// snapshotMsg carries a snapshot published by the session.
type snapshotMsg game.Snapshot

func waitForSnapshot(ch <-chan game.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSnapshot(m.updates))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case tea.KeyDown:
			if m.cursor < len(m.pending.Suggestions())-1 {
				m.cursor++
			}
			return m, nil

		case tea.KeyTab:
			if name, ok := m.pending.Select(m.cursor); ok {
				m.input.SetValue(name)
				m.input.CursorEnd()
				m.cursor = 0
			}
			return m, nil

		case tea.KeyEnter:
			return m.submit(), nil

		case tea.KeyCtrlT: // Ctrl+H is Backspace on many terminals
			return m.hint(), nil

		case tea.KeyCtrlG:
			return m.giveUp(), nil

		case tea.KeyCtrlR:
			return m.reset(), nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case snapshotMsg:
		// Snapshots from a session replaced by Reset are stale.
		if msg.ID == m.sess.ID() {
			m.snap = game.Snapshot(msg)
		}
		return m, waitForSnapshot(m.updates)
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.pending.Type(v)
		m.cursor = 0
	}
	return m, cmd
}

func (m model) submit() model {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m
	}
	res, err := m.sess.SubmitGuess(text)
	if err != nil {
		return m.fail(err)
	}
	m.input.Reset()
	m.pending.Clear()
	m.cursor = 0
	m.snap = m.sess.Snapshot()
	if m.snap.Status == game.StatusWon {
		return m.say(fmt.Sprintf("You got it! It's %s, found in %d guesses. Ctrl+R for a new game.", res.Creature.Name, m.snap.GuessCount))
	}
	return m.say("")
}

func (m model) hint() model {
	h, err := m.sess.RequestHint()
	if err != nil {
		return m.fail(err)
	}
	m.snap = m.sess.Snapshot()
	return m.say(fmt.Sprintf("Hint: %s is %s", h.Label, h.Value))
}

func (m model) giveUp() model {
	t, err := m.sess.GiveUp()
	if err != nil {
		return m.fail(err)
	}
	m.snap = m.sess.Snapshot()
	return m.say(fmt.Sprintf("It was %s. Ctrl+R for a new game.", t.Name))
}

func (m model) reset() model {
	m.sess = m.sess.Reset()
	m.pending = game.NewInput(m.sess.Suggest)
	m.input.Reset()
	m.cursor = 0
	m.snap = m.sess.Snapshot()
	log.Debug().Str("session", m.snap.ID).Msg("session reset")
	return m.say("New game started.")
}

func (m model) say(s string) model {
	m.message, m.isError = s, false
	return m
}

func (m model) fail(err error) model {
	var unknown *game.UnknownCreatureError
	switch {
	case errors.As(err, &unknown) && unknown.Suggestion != "":
		m.message = fmt.Sprintf("No creature called %q. Did you mean %s?", unknown.Query, unknown.Suggestion)
	case errors.Is(err, game.ErrSessionFinished):
		m.message = "This game is over. Ctrl+R for a new game."
	default:
		m.message = err.Error()
	}
	m.isError = true
	return m
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("PokeDetective"))
	fmt.Fprintf(&b, "   guesses: %d   hints left: %d   %s\n\n", m.snap.GuessCount, m.snap.Hint.Remaining, statusText(m.snap.Status))

	b.WriteString(m.input.View() + "\n")
	for i, c := range m.pending.Suggestions() {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+c.Name) + "\n")
		} else {
			b.WriteString("  " + c.Name + "\n")
		}
	}

	if m.message != "" {
		style := infoStyle
		if m.isError {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.message) + "\n")
	}

	if hints := m.renderHints(); hints != "" {
		b.WriteString("\n" + hints + "\n")
	}
	if len(m.snap.Guesses) > 0 {
		b.WriteString("\n" + m.renderGuesses() + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ choose · Tab complete · Enter guess · Ctrl+T hint · Ctrl+G give up · Ctrl+R new game · Esc quit"))
	return "\n" + b.String() + "\n"
}

func (m model) renderHints() string {
	if len(m.snap.Hint.Revealed) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.snap.Hint.Revealed))
	for _, h := range m.snap.Hint.Revealed {
		lines = append(lines, fmt.Sprintf("%s: %s", h.Label, h.Value))
	}
	return hintStyle.Render(strings.Join(lines, "\n"))
}

// renderGuesses draws the guess history newest first, one column per attribute.
func (m model) renderGuesses() string {
	guesses := m.snap.Guesses
	headers := make([]string, 0, len(m.schema)+1)
	headers = append(headers, "Name")
	for _, a := range m.schema {
		headers = append(headers, a.Label)
	}

	rows := make([][]string, 0, len(guesses))
	signals := make([][]game.Signal, 0, len(guesses))
	for i := len(guesses) - 1; i >= 0; i-- {
		g := guesses[i]
		row := make([]string, 0, len(headers))
		sig := make([]game.Signal, 0, len(headers))
		row = append(row, g.Creature.Name)
		if g.Correct() {
			sig = append(sig, game.SignalMatch)
		} else {
			sig = append(sig, game.SignalNoMatch)
		}
		for _, a := range m.schema {
			v, _ := g.Creature.Attr(a.Name)
			s := g.Signal(a.Name)
			row = append(row, cellText(v, s))
			sig = append(sig, s)
		}
		rows = append(rows, row)
		signals = append(signals, sig)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(signals) || col >= len(signals[row]) {
				return cellStyle
			}
			if st, ok := signalStyles[signals[row][col]]; ok {
				return st
			}
			return cellStyle
		}).
		Render()
}

func cellText(v catalog.Value, s game.Signal) string {
	switch s {
	case game.SignalHigher:
		return "↑ " + v.String()
	case game.SignalLower:
		return "↓ " + v.String()
	}
	return v.String()
}

func statusText(s game.Status) string {
	switch s {
	case game.StatusWon:
		return "solved"
	case game.StatusGaveUp:
		return "gave up"
	}
	return ""
}

// Run starts the terminal client on sess and blocks until the player quits.
func Run(sess *game.Session) error {
	p := tea.NewProgram(NewModel(sess), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
