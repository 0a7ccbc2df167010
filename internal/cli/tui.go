package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/imfine/texwire/pkg/wire"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// OptionsModel - Interactive transform options
// =============================================================================

// toggle is one switchable transform option.
type toggle struct {
	Label string
	Help  string
	On    bool
}

const (
	toggleScale = iota
	toggleOffset
	toggleRotation
	toggleTriplanar
	toggleVectorAbs
	togglePerTexture
)

// OptionsModel is the bubbletea model for picking transform options.
type OptionsModel struct {
	Toggles   []toggle
	Cursor    int
	Confirmed bool
}

// NewOptionsModel creates a picker preset to opts.
func NewOptionsModel(opts wire.Options) OptionsModel {
	return OptionsModel{Toggles: []toggle{
		toggleScale:      {Label: "Scale", Help: "shared scale control", On: opts.Scale},
		toggleOffset:     {Label: "Offset", Help: "shared offset control", On: opts.Offset},
		toggleRotation:   {Label: "Rotation", Help: "shared rotation control", On: opts.Rotation},
		toggleTriplanar:  {Label: "Triplanar", Help: "route textures through triplanar", On: opts.Triplanar},
		toggleVectorAbs:  {Label: "Vector scale", Help: "scale per axis", On: opts.ScaleUsesVectorAbs},
		togglePerTexture: {Label: "Per texture", Help: "separate controls per texture", On: opts.PerTexture},
	}}
}

// Options returns the options the toggles describe.
func (m OptionsModel) Options() wire.Options {
	return wire.Options{
		Scale:              m.Toggles[toggleScale].On,
		Offset:             m.Toggles[toggleOffset].On,
		Rotation:           m.Toggles[toggleRotation].On,
		Triplanar:          m.Toggles[toggleTriplanar].On,
		ScaleUsesVectorAbs: m.Toggles[toggleVectorAbs].On,
		PerTexture:         m.Toggles[togglePerTexture].On,
	}
}

func (m OptionsModel) Init() tea.Cmd {
	return nil
}

func (m OptionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Toggles)-1 {
			m.Cursor++
		}
	case " ", "space", "x":
		// Copy so the caller's model keeps its own slice.
		toggles := append([]toggle(nil), m.Toggles...)
		toggles[m.Cursor].On = !toggles[m.Cursor].On
		m.Toggles = toggles
	case "enter":
		m.Confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OptionsModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Transform Options"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  ⏎ apply  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Toggles))
	for i, t := range m.Toggles {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if t.On {
			box = "[" + iconSuccess + "]"
		}
		rows[i] = []string{cursor, box, t.Label, t.Help}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(m.Toggles) {
				return lipgloss.NewStyle()
			}
			switch {
			case col == 3:
				return listDimStyle
			case row == m.Cursor:
				return listSelectedStyle
			case m.Toggles[row].On:
				return StyleSuccess
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if !m.Toggles[toggleScale].On && !m.Toggles[toggleOffset].On && !m.Toggles[toggleRotation].On {
		b.WriteString(StyleWarning.Render("  no controls selected"))
		b.WriteString("\n")
	}
	return b.String()
}
