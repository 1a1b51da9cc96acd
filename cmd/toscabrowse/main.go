// Command toscabrowse is an interactive terminal browser for a parsed
// TOSCA topology: a scrollable list of node templates, drilling into a
// selected node's properties, capabilities, and requirements.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/term"

	tea "charm.land/bubbletea/v2"

	"github.com/onecommons/tosca-parser-go/errcol"
	"github.com/onecommons/tosca-parser-go/resolver"
	"github.com/onecommons/tosca-parser-go/template"
	"github.com/onecommons/tosca-parser-go/tosca"
	"github.com/onecommons/tosca-parser-go/value"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: toscabrowse <service_template.yaml>\n")

		return 1
	}

	path := os.Args[1]

	res := resolver.NewFileResolver(filepath.Dir(path))

	model, err := tosca.Parse(filepath.Base(path), tosca.Options{Resolver: res, Verify: false})

	var aggErr *errcol.AggregateError
	if err != nil && !errors.As(err, &aggErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	if model == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	bm := newBrowserModel(model)

	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		bm.width, bm.height = w, h
	}

	p := tea.NewProgram(bm)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	return 0
}

// browserModel is the bubbletea model for browsing a parsed topology.
// It mirrors cmd/ansi_video_renderer's model/Init/Update/View shape,
// replacing streamed video frames with a static, already-resolved
// topology tree.
type browserModel struct {
	model *tosca.Model
	names []string // sorted node template names
	buf   strings.Builder

	cursor   int
	selected string // "" means the list view; otherwise the detail view for this node
	width    int
	height   int
}

func newBrowserModel(model *tosca.Model) *browserModel {
	names := make([]string, 0, len(model.NodeTemplates))
	for name := range model.NodeTemplates {
		names = append(names, name)
	}

	sort.Strings(names)

	return &browserModel{model: model, names: names}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.selected != "" {
				m.selected = ""
			}
		case "up", "k":
			if m.selected == "" && m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.selected == "" && m.cursor < len(m.names)-1 {
				m.cursor++
			}
		case "enter":
			if m.selected == "" && len(m.names) > 0 {
				m.selected = m.names[m.cursor]
			}
		}
	}

	return m, nil
}

func (m *browserModel) View() tea.View {
	m.buf.Reset()

	if m.selected == "" {
		m.viewList()
	} else {
		m.viewDetail(m.selected)
	}

	v := tea.NewView(m.buf.String())
	v.AltScreen = true

	return v
}

func (m *browserModel) viewList() {
	fmt.Fprintf(&m.buf, "%s  (%d node templates)\n\n", m.model.Version, len(m.names))

	for i, name := range m.names {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		fmt.Fprintf(&m.buf, "%s%s  (%s)\n", cursor, name, m.model.NodeTemplates[name].TypeName)
	}

	m.buf.WriteString("\n↑/↓ select · enter view · q quit\n")
}

func (m *browserModel) viewDetail(name string) {
	nt := m.model.NodeTemplates[name]

	fmt.Fprintf(&m.buf, "%s  (%s)\n\n", name, nt.TypeName)

	if len(nt.Directives) > 0 {
		fmt.Fprintf(&m.buf, "directives: %s\n\n", strings.Join(nt.Directives, ", "))
	}

	m.buf.WriteString("properties:\n")

	if nt.Properties != nil {
		writeJSON(&m.buf, value.NewMapping(nt.Properties).Native())
	} else {
		m.buf.WriteString("  {}\n")
	}

	if len(nt.Capabilities) > 0 {
		m.buf.WriteString("\ncapabilities:\n")

		capNames := make([]string, 0, len(nt.Capabilities))
		for capName := range nt.Capabilities {
			capNames = append(capNames, capName)
		}

		sort.Strings(capNames)

		for _, capName := range capNames {
			fmt.Fprintf(&m.buf, "  %s: %s\n", capName, nt.Capabilities[capName].Type)
		}
	}

	if len(nt.Requirements) > 0 {
		m.buf.WriteString("\nrequirements:\n")

		for _, req := range nt.Requirements {
			fmt.Fprintf(&m.buf, "  %s\n", requirementDetail(req))
		}
	}

	if len(nt.Inbound) > 0 {
		m.buf.WriteString("\ninbound relationships:\n")

		for _, rel := range nt.Inbound {
			fmt.Fprintf(&m.buf, "  %s -> %s (%s)\n", rel.Source.Name, rel.Target.Name, rel.TypeName)
		}
	}

	m.buf.WriteString("\nesc back · q quit\n")
}

func requirementDetail(req *template.Requirement) string {
	name := req.Def.Name
	if req.Target != nil {
		return fmt.Sprintf("%s -> %s [%s]", name, req.Target.Name, requirementStateLabel(req.State))
	}

	return fmt.Sprintf("%s [%s]", name, requirementStateLabel(req.State))
}

func requirementStateLabel(s template.State) string {
	switch s {
	case template.StateDeclared:
		return "declared"
	case template.StateMatched:
		return "matched"
	case template.StateBound:
		return "bound"
	case template.StateMissing:
		return "missing"
	case template.StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

func writeJSON(buf *strings.Builder, v any) {
	data, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		fmt.Fprintf(buf, "  <error: %v>\n", err)

		return
	}

	buf.WriteString("  ")
	buf.Write(data)
	buf.WriteString("\n")
}
