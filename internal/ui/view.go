package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/courier/internal/dispatch"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	body, logs := m.layout()

	rows := []string{
		m.renderHeader(),
		m.renderFormatRow(),
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderPatterns(body),
			m.renderOutput(body),
		),
	}
	if m.showLogs {
		rows = append(rows, m.renderLogPane(logs))
	}
	rows = append(rows, m.renderCommandBar())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderHeader shows the endpoint, catalog state and dispatch counters.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("courier", styles.Logo),
		bg.Render(truncateMiddle(m.endpoint, 48), styles.MutedText),
	}
	if m.catalog == nil || !m.catalog.Loaded() {
		parts = append(parts, styles.StatusStyle("failed").Render("CATALOG UNLOADED"))
	}

	snap := m.snapshot
	parts = append(parts, bg.Render(fmt.Sprintf("sent %d", snap.Sent), styles.Text))
	if snap.Failed > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("failed %d", snap.Failed), styles.DangerText))
	}
	if snap.Rejected > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("rejected %d", snap.Rejected), styles.WarningText))
	}
	if snap.IsOffline() {
		parts = append(parts, styles.StatusStyle("failed").Render("OFFLINE"))
	}
	if m.inFlight > 0 {
		parts = append(parts, m.spinner.View()+bg.Render(" sending", styles.InfoText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, bg.Spaces(2)))
}

// renderFormatRow renders the formats as a radio row.
func (m Model) renderFormatRow() string {
	styles := m.theme.Styles()
	row := []string{styles.MutedText.Render("Format")}
	if len(m.formats) == 0 {
		row = append(row, styles.FaintText.Render("none"))
	}
	for i, f := range m.formats {
		style := styles.Text
		if !dispatch.Style(f).Valid() {
			style = styles.FaintText
		}
		marker := "( )"
		if i == m.formatIdx {
			marker = "(•)"
			style = styles.AccentText.Bold(true)
		}
		row = append(row, style.Render(marker+" "+f))
	}
	return lipgloss.NewStyle().Width(m.width).Padding(0, 1).Render(strings.Join(row, "  "))
}

// renderPatterns renders the pattern list, scrolled to keep the selection visible.
func (m Model) renderPatterns(height int) string {
	styles := m.theme.Styles()
	inner := patternPaneWidth - 2
	visible := max(height-3, 1)

	start := 0
	if m.patternIdx >= visible {
		start = m.patternIdx - visible + 1
	}
	end := min(start+visible, len(m.patterns))

	lines := make([]string, 0, visible)
	if len(m.patterns) == 0 {
		lines = append(lines, styles.FaintText.Render("no patterns"))
	}
	for i := start; i < end; i++ {
		name := truncateMiddle(m.patterns[i], inner)
		if i == m.patternIdx {
			lines = append(lines, styles.Selected.Width(inner).Render(name))
			continue
		}
		lines = append(lines, styles.Text.Render(name))
	}

	title := fmt.Sprintf("Patterns %d", len(m.patterns))
	return m.renderBox(title, strings.Join(lines, "\n"), patternPaneWidth, height, true)
}

// renderOutput renders the selected outcome in the output viewport.
func (m Model) renderOutput(height int) string {
	styles := m.theme.Styles()
	title := "Output"
	if n := len(m.snapshot.History); n > 0 {
		o := m.snapshot.History[m.historyIdx]
		title = styles.StatusStyle(statusClass(o)).Render(statusLabel(o)) +
			" " + styles.MutedText.Render(fmt.Sprintf("%d/%d %s", m.historyIdx+1, n, m.mode))
		if m.verbose {
			title += styles.FaintText.Render(" headers")
		}
	}
	return m.renderBox(title, m.output.View(), max(m.width-patternPaneWidth, 12), height, false)
}

// renderLogPane renders the tail of the log file.
func (m Model) renderLogPane(height int) string {
	title := fmt.Sprintf("Log %s+ %s", strings.ToLower(m.logLevel.String()), truncateMiddle(m.logFile, 48))
	return m.renderBox(title, m.logView.View(), m.width, height, false)
}

// renderCommandBar renders key hints and the latest notice.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	content := m.help.View(m.keys)
	if m.notice != "" {
		style := styles.InfoText
		if m.noticeErr {
			style = styles.DangerText
		}
		content = bg.Render(truncate(m.notice, 60), style) + bg.Spaces(2) + content
	}
	content += bg.Spaces(2) + bg.Render("t", styles.AccentText) + bg.Sep(":") + bg.Render(m.theme.Name, styles.FaintText)
	return bg.FillLine(content, m.width)
}

// renderBox draws a bordered pane with a title line.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(max(width-2, 1)).
		Height(max(height-2, 1))

	header := m.theme.Styles().Text.Bold(true).Render(title)
	return style.Render(header + "\n" + content)
}

func statusLabel(o dispatch.Outcome) string {
	if o.HasStatus() {
		return fmt.Sprintf("%d %s/%s", o.StatusCode, o.Format, o.Pattern)
	}
	return fmt.Sprintf("%s %s/%s", o.State, o.Format, o.Pattern)
}

// statusClass maps an outcome to a badge color key.
func statusClass(o dispatch.Outcome) string {
	if !o.HasStatus() {
		return o.State.String()
	}
	return fmt.Sprintf("%dxx", o.StatusCode/100)
}

// truncate truncates a string to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// truncateMiddle keeps both ends of long values such as paths and URLs.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1 // room for ellipsis rune
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
