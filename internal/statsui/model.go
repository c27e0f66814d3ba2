// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/store"
)

const (
	tabOverview = iota
	tabKeyTable
	tabKeyCurves
)

const curveKeyCount = 5

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	keyTable  table.Model

	keySelection  []string
	keysCustom    bool
	keyPerSession map[int64]map[string]model.KeyAggregate

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Key Table", "Key Curves"},
	}
	m.keySelection = ParseKeys(cfg.Keys)
	m.keysCustom = len(m.keySelection) > 0
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.keyTable = table.New(table.WithColumns(keyColumns()), table.WithHeight(1))
	m.keyTable.SetStyles(keyTableStyles())
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "i":
			m.cfg.IdealCount = !m.cfg.IdealCount
			m.renderTabContents()
			return m, nil
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabKeyTable {
			m.keyTable, cmd = m.keyTable.Update(msg)
			return m, cmd
		}
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight := m.layoutHeights()
	header := fitLines(m.renderTabs()+"\n"+m.renderSettings(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	return strings.Join([]string{header, body, fitLines(m.renderFooter(), m.width, 1)}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X")) + 1
	bodyHeight = max(1, m.height-headerHeight-1)
	return headerHeight, bodyHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.keyTable.SetWidth(m.width)
	m.keyTable.SetHeight(max(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	if m.activeTab == tabKeyTable {
		m.keyTable.Focus()
	} else {
		m.keyTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSettings() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	count := "actual"
	if m.cfg.IdealCount {
		count = "ideal"
	}
	return headerStyle.Render(fmt.Sprintf("Settings: since=%s  last=%s  window=%d  count=%s",
		since, last, m.cfg.CurveWindow, count))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Window: -/=  Ideal/actual: i  Quit: q")
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabKeyTable {
		switch {
		case len(m.report.Sessions) == 0:
			return "No sessions found."
		case len(m.report.KeyAggsAll) == 0:
			return "No key stats found."
		default:
			return tableMutedStyle.Render(m.keyTable.View())
		}
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	if !m.keysCustom {
		m.keySelection = stats.TopKeysByFrequency(report.KeyAggsAll, curveKeyCount)
	}
	m.keyPerSession = nil
	if len(m.keySelection) > 0 {
		perSession, err := m.store.ListKeyStatsForSessions(context.Background(), stats.SessionIDs(report.Sessions), m.keySelection)
		if err != nil {
			m.errMsg = err.Error()
		}
		m.keyPerSession = perSession
	}
	m.keyTable.SetRows(keyRows(report.KeyAggsAll))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" && len(m.report.Sessions) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Sessions, m.cfg.CurveWindow, width, m.cfg.IdealCount))
	m.viewports[tabKeyCurves].SetContent(renderKeyCurves(m.report.Sessions, m.keySelection, m.keyPerSession, m.cfg.CurveWindow, width))
}

func renderOverview(sessions []model.SessionAggregate, window, width int, ideal bool) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, sessions, window, width, ideal); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(renderSummaryCards(sessions, width, ideal)+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(sessions []model.SessionAggregate, width int, ideal bool) string {
	metrics := lo.Map(sessions, func(s model.SessionAggregate, _ int) stats.Metrics {
		return stats.SessionMetrics(s, ideal)
	})
	count := float64(len(metrics))
	avgWPM := lo.SumBy(metrics, func(m stats.Metrics) float64 { return float64(m.WPM) }) / count
	avgAcc := lo.SumBy(metrics, func(m stats.Metrics) float64 { return m.Accuracy }) / count
	avgScore := lo.SumBy(metrics, func(m stats.Metrics) float64 { return float64(m.Score) }) / count
	bestWPM := lo.MaxBy(metrics, func(a, b stats.Metrics) bool { return a.WPM > b.WPM }).WPM
	bestScore := lo.MaxBy(metrics, func(a, b stats.Metrics) bool { return a.Score > b.Score }).Score

	cards := []string{
		metricCard("Sessions", strconv.Itoa(len(sessions))),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", avgWPM)),
		metricCard("Best WPM", strconv.Itoa(bestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", avgAcc)),
		metricCard("Avg Score", fmt.Sprintf("%.1f", avgScore)),
		metricCard("Best Score", strconv.Itoa(bestScore)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderKeyCurves(sessions []model.SessionAggregate, keys []string, perSession map[int64]map[string]model.KeyAggregate, window, width int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	if len(keys) == 0 {
		return "No keys selected. Use --keys to choose keys."
	}
	var buf bytes.Buffer
	if err := stats.RenderKeyCurves(&buf, sessions, perSession, keys, window, width); err != nil {
		return fmt.Sprintf("Failed to render key curves: %v", err)
	}
	header := headerStyle.Render("Keys: " + strings.Join(lo.Map(keys, func(k string, _ int) string {
		return stats.KeyLabel(k)
	}), ", "))
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func keyColumns() []table.Column {
	return []table.Column{
		{Title: "Key", Width: 7},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Latency (ms)", Width: 17},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Total", Width: 6},
	}
}

// keyRows lists aggregates least accurate first.
func keyRows(aggs []model.KeyAggregate) []table.Row {
	sorted := append([]model.KeyAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := stats.KeyAccuracy(sorted[i]), stats.KeyAccuracy(sorted[j])
		if ai == aj {
			return sorted[i].Key < sorted[j].Key
		}
		return ai < aj
	})
	return lo.Map(sorted, func(agg model.KeyAggregate, _ int) table.Row {
		lat := 0.0
		if agg.LatencyCount > 0 {
			lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		}
		return table.Row{
			stats.KeyLabel(agg.Key),
			fmt.Sprintf("%.2f%%", stats.KeyAccuracy(agg)*100),
			fmt.Sprintf("%.1f", lat),
			strconv.Itoa(agg.Correct),
			strconv.Itoa(agg.Incorrect),
			strconv.Itoa(agg.Correct + agg.Incorrect),
		}
	})
}

func keyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// ParseKeys splits a key selection. Commas separate keys when present,
// otherwise every character is a key. "space" names the space key.
func ParseKeys(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	var parts []string
	if strings.Contains(input, ",") || input == "space" {
		parts = strings.Split(input, ",")
	} else {
		parts = lo.Map([]rune(input), func(r rune, _ int) string { return string(r) })
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		switch trimmed := strings.TrimSpace(p); trimmed {
		case "":
		case "space":
			out = append(out, " ")
		default:
			out = append(out, trimmed)
		}
	}
	return lo.Uniq(out)
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
