package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/san-kum/framehold/internal/config"
	"github.com/san-kum/framehold/internal/policy"
	"github.com/san-kum/framehold/internal/sim"
)

// App lets the user pick a preset and a starting mode, then hands over to
// a live Model.
type App struct {
	cursor  int
	presets []string
	modes   map[string]policy.Mode
	live    *Model
	sc      *sim.Scenario
	err     error
	log     zerolog.Logger
}

func NewApp(log zerolog.Logger) App {
	presets := config.ListPresets()
	modes := make(map[string]policy.Mode, len(presets))
	for _, name := range presets {
		mode, err := policy.ParseMode(config.Presets[name].Mode)
		if err != nil {
			mode = policy.Automatic
		}
		modes[name] = mode
	}
	return App{presets: presets, modes: modes, log: log}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.stop()
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		live := next.(Model)
		a.live = &live
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "left", "right", "tab", "m":
		name := a.presets[a.cursor]
		a.modes[name] = a.modes[name].Next()
	case "enter", " ":
		cmd := a.start()
		return a, cmd
	}
	return a, nil
}

func (a *App) start() tea.Cmd {
	name := a.presets[a.cursor]
	cfg := config.GetPreset(name)
	cfg.Mode = a.modes[name].String()

	sc, err := sim.Build(cfg, a.log)
	if err != nil {
		a.err = err
		return nil
	}
	a.sc, a.err = sc, nil
	live := NewModel(sc, name)
	a.live = &live
	return live.Init()
}

func (a *App) stop() {
	if a.sc != nil {
		a.sc.Close()
	}
	a.live, a.sc = nil, nil
}

// Selected is the preset under the cursor and the mode it would start in.
func (a App) Selected() (string, policy.Mode) {
	name := a.presets[a.cursor]
	return name, a.modes[name]
}

func (a App) Running() bool { return a.live != nil }

func (a App) View() string {
	if a.live != nil {
		return a.live.View() + "\n" + menuDim.Render("esc: back to presets")
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("FRAMEHOLD SCENARIOS") + "\n")
	for i, name := range a.presets {
		mode := a.modes[name]
		line := fmt.Sprintf("%-16s %s", name, iconStyles[mode.Icon()].Render(string(mode.Icon())))
		if i == a.cursor {
			s.WriteString(menuCursor.Render("> ") + line + "\n")
		} else {
			s.WriteString("  " + menuItem.Render(line) + "\n")
		}
	}
	if a.err != nil {
		s.WriteString("\n" + errStyle.Render(a.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("↑↓:Select ←→:Mode Enter:Start Q:Quit"))
	return canvasStyle.Render(s.String())
}
