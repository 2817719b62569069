package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/capability-graph/pkg/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(16)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	idStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Width(28)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Width(12)
)

func title(w io.Writer, s string) {
	fmt.Fprintln(w, titleStyle.Render(s))
}

func header(w io.Writer, s string) {
	fmt.Fprintln(w, headerStyle.Render(s))
}

func field(w io.Writer, label string, value any) {
	fmt.Fprintln(w, labelStyle.Render(label)+fmt.Sprint(value))
}

// nodeLine renders one node as an aligned "id type name" row
func nodeLine(w io.Writer, n *storage.Node) {
	fmt.Fprintln(w, "  "+idStyle.Render(n.ID)+typeStyle.Render(string(n.Type))+n.Name())
}

func nodeLines(w io.Writer, nodes []*storage.Node) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, n := range nodes {
		nodeLine(w, n)
	}
}

// counts renders a map as "key=n" pairs sorted by key
func counts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}
