package courtview

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Attacker key.Binding
	Defender key.Binding
	Ball     key.Binding
	Cone     key.Binding
	Coach    key.Binding
	Line     key.Binding
	Curve    key.Binding
	Style    key.Binding
	Ending   key.Binding
	Finish   key.Binding
	Recolor  key.Binding
	Delete   key.Binding
	Cancel   key.Binding
	Sample   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Attacker: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "attacker")),
		Defender: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "defender")),
		Ball:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "ball")),
		Cone:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cone")),
		Coach:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "coach")),
		Line:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "line")),
		Curve:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "curve")),
		Style:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle style")),
		Ending:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "cycle ending")),
		Finish:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "finish curve")),
		Recolor:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recolour")),
		Delete:   key.NewBinding(key.WithKeys("x", "delete", "backspace"), key.WithHelp("x", "delete")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Sample:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sample drill")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Attacker, k.Defender, k.Line, k.Curve, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Attacker, k.Defender, k.Ball, k.Cone, k.Coach},
		{k.Line, k.Curve, k.Style, k.Ending, k.Finish},
		{k.Recolor, k.Delete, k.Cancel, k.Sample},
		{k.Help, k.Quit},
	}
}
