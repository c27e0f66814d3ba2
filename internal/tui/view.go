package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	lapStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	cursorStyle  = currentStyle.Underline(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6E6E6E")).
			Padding(1, 3)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenError:
		content = missStyle.Render("error: " + m.err.Error())
	case screenResult:
		content = m.renderResult()
	default:
		content = m.renderTyping()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderTyping() string {
	p := m.proj
	kanaCursor := lo.Min(p.KanaCursor)
	kanaMisses := toSet(p.KanaMisses)
	kanaCursors := toSet(p.KanaCursor)
	displayMisses := toSet(m.query.DisplayIndices(p.KanaMisses))
	displayCursors := toSet(m.query.DisplayIndices(p.KanaCursor))
	displayCursor := lo.Min(m.query.DisplayIndices(p.KanaCursor))
	romanMisses := toSet(p.RomanMisses)
	lapEnds := toSet(p.LapEnds)

	width := m.contentWidth()
	display := styleRunes([]rune(m.query.DisplayText), func(i int) lipgloss.Style {
		return progressStyle(i, displayCursor, displayCursors, displayMisses)
	})
	kana := styleRunes([]rune(m.query.Kana), func(i int) lipgloss.Style {
		return progressStyle(i, kanaCursor, kanaCursors, kanaMisses)
	})
	roman := styleRunes([]rune(p.Roman), func(i int) lipgloss.Style {
		_, miss := romanMisses[i]
		switch {
		case i < p.Cursor && miss:
			return missStyle
		case i < p.Cursor:
			return doneStyle
		case i == p.Cursor && miss:
			return missStyle.Underline(true)
		case i == p.Cursor:
			return cursorStyle
		}
		if _, ok := lapEnds[i]; ok {
			return lapStyle
		}
		return pendingStyle
	})

	lines := []string{
		wrapStyledRunes(display, width),
		wrapStyledRunes(kana, width),
		"",
		wrapStyledRunes(roman, width),
		"",
		m.progress.ViewAs(p.Progress),
		footerStyle.Render(m.timerLine()),
	}
	return lipgloss.NewStyle().Width(max(width, 1)).Render(strings.Join(lines, "\n"))
}

// progressStyle styles kana and display text. Before the first key every
// index after the cursor is pending; once finished nothing is.
func progressStyle(i, cursor int, cursors, misses map[int]struct{}) lipgloss.Style {
	_, miss := misses[i]
	if _, ok := cursors[i]; ok {
		if miss {
			return missStyle.Underline(true)
		}
		return cursorStyle
	}
	if len(cursors) > 0 && i > cursor {
		return pendingStyle
	}
	if miss {
		return missStyle
	}
	return doneStyle
}

func (m *Model) timerLine() string {
	segments := []string{m.stopwatch.View()}
	for i, split := range m.proj.LapSplits() {
		segments = append(segments, fmt.Sprintf("L%d %s", i+1, seconds(split)))
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderResult() string {
	metrics := m.result.Metrics(m.ideal)
	count := "actual"
	if m.ideal {
		count = "ideal"
	}
	rows := [][2]string{
		{"WPM", fmt.Sprintf("%d", metrics.WPM)},
		{"Accuracy", fmt.Sprintf("%.2f%%", metrics.Accuracy)},
		{"Score", fmt.Sprintf("%d", metrics.Score)},
		{"Keys", fmt.Sprintf("%d (%s)", metrics.KeyCount, count)},
		{"Misses", fmt.Sprintf("%d", m.result.MissCount)},
		{"Time", seconds(m.result.TotalTimeMs)},
	}
	lines := lo.Map(rows, func(r [2]string, _ int) string {
		return labelStyle.Render(r[0]) + valueStyle.Render(r[1])
	})
	if splits := m.proj.LapSplits(); len(splits) > 0 {
		lines = append(lines, "", labelStyle.Render("Laps")+strings.Join(lo.Map(splits, func(s int64, _ int) string {
			return seconds(s)
		}), " "))
	}
	lines = append(lines, "", footerStyle.Render("i ideal/actual · enter next · q quit"))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Progress %d%%", int(m.proj.Progress*100))}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM · %.1f%%", m.last.WPM, m.last.Accuracy))
	}
	all := m.all.Metrics(m.ideal)
	segments = append(segments, fmt.Sprintf("All-time %d WPM · %.1f%%", all.WPM, all.Accuracy))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func seconds(ms int64) string {
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

func toSet(idx []int) map[int]struct{} {
	set := make(map[int]struct{}, len(idx))
	for _, i := range idx {
		set[i] = struct{}{}
	}
	return set
}
