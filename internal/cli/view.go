package cli

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/picker"
)

const (
	cursorMark = "❯ "
	noMark     = "  "
)

// FormatLaneTable renders entries as an aligned table. Column widths are
// measured in terminal cells so wide (CJK) names line up.
//
// Example:
//
//	  NAME           BRANCH          PATH
//	* main (main)    main            /src/app
//	  feature-auth   feature/auth    /src/app-lane-feature-auth
func FormatLaneTable(entries []model.LaneEntry) string {
	headers := []string{"NAME", "BRANCH", "PATH"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if e.IsMain {
			name += " (main)"
		}
		rows = append(rows, []string{name, e.Branch, e.Path})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(marker string, cells []string) {
		b.WriteString(marker)
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]+3))
		}
		b.WriteString("\n")
	}

	writeRow(noMark, headers)
	for i, row := range rows {
		marker := noMark
		if entries[i].IsCurrent {
			marker = "* "
		}
		writeRow(marker, row)
	}
	return b.String()
}

func nameWidth(entries []model.LaneEntry) int {
	w := 0
	for _, e := range entries {
		w = max(w, runewidth.StringWidth(e.Name))
	}
	return w
}

func laneLine(e model.LaneEntry, width int) string {
	line := runewidth.FillRight(e.Name, width) + "  " + e.Branch
	switch {
	case e.IsMain:
		line += "  (main)"
	case e.IsCurrent:
		line += "  ← current"
	}
	return line
}

func renderSelect(s *picker.Select) string {
	var b strings.Builder
	b.WriteString("Select a lane:\n\n")
	entries := s.Entries()
	width := nameWidth(entries)
	for i, e := range entries {
		mark := noMark
		if i == s.Cursor() {
			mark = cursorMark
		}
		b.WriteString(mark + laneLine(e, width) + "\n")
	}
	b.WriteString("\n↑↓/jk: navigate • Enter: switch • q: quit\n")
	return b.String()
}

func renderManage(m *picker.Manage) string {
	var b strings.Builder
	b.WriteString("Lanes:\n\n")
	entries := m.Entries()
	width := nameWidth(entries)
	for i, e := range entries {
		mark := noMark
		if i == m.Cursor() {
			mark = cursorMark
		}
		box := "[ ] "
		if m.Marked(i) {
			box = "[x] "
		}
		b.WriteString(mark + box + laneLine(e, width) + "\n")
	}

	if m.State() == picker.ManageConfirmDelete {
		names := make([]string, 0, len(m.Pending()))
		for _, e := range m.Pending() {
			names = append(names, e.Name)
		}
		fmt.Fprintf(&b, "\nDelete %s? (y/n)\n", strings.Join(names, ", "))
		return b.String()
	}
	b.WriteString("\n↑↓/jk: navigate • Enter: switch • Space: mark • d: delete • s: sync • q: quit\n")
	return b.String()
}

func renderSettings(e *picker.SettingsEditor) string {
	var b strings.Builder
	b.WriteString("Lane settings:\n\n")
	for i, f := range picker.SettingsFields {
		mark := noMark
		if i == e.Cursor() {
			mark = cursorMark
		}
		v := e.Value(f)
		fmt.Fprintf(&b, "%s%s: ◀ %s ▶\n", mark, runewidth.FillRight(f.Label, 20), v)
		if i == e.Cursor() {
			fmt.Fprintf(&b, "    %s\n", f.Descriptions[v])
		}
	}
	b.WriteString("\n↑↓: select • ←→: change • Enter/s: save • q: cancel\n")
	return b.String()
}

func renderCheckout(c *picker.Checkout, branchExists bool) string {
	var b strings.Builder
	state := "doesn't exist"
	if branchExists {
		state = "exists"
	}
	fmt.Fprintf(&b, "Branch %q %s\nNo lane currently has this branch checked out.\n\n", c.Branch(), state)
	for i, opt := range c.Options() {
		mark := noMark
		if i == c.Cursor() {
			mark = cursorMark
		}
		fmt.Fprintf(&b, "%s%s\n    %s\n", mark, opt.Label, opt.Description)
	}
	b.WriteString("\n↑↓: navigate • Enter: select • q: cancel\n")
	return b.String()
}
