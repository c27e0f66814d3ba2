// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/kanatype/internal/engine"
	"github.com/verte-zerg/kanatype/internal/generator"
	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/query"
	"github.com/verte-zerg/kanatype/internal/romaji"
	statsPkg "github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/store"
	"github.com/verte-zerg/kanatype/internal/vocabulary"
)

type screen int

const (
	screenTyping screen = iota
	screenResult
	screenError
)

// Model implements the Bubble Tea typing UI.
type Model struct {
	config    model.Config
	store     *store.Store
	gen       *generator.Generator
	entries   []vocabulary.Entry
	spellings []string
	log       *slog.Logger
	clock     func() time.Time

	weakNoticePrinted bool

	width  int
	height int

	screen    screen
	query     query.Query
	session   *engine.Session
	proj      engine.Projection
	startedAt time.Time
	err       error

	stopwatch stopwatch.Model
	progress  progress.Model

	result statsPkg.Summary
	ideal  bool

	last    statsPkg.Metrics
	hasLast bool
	all     statsPkg.Summary
}

// NewModel constructs a typing TUI model and builds the first query.
func NewModel(cfg model.Config, store *store.Store, gen *generator.Generator, entries []vocabulary.Entry, log *slog.Logger) (*Model, error) {
	if log == nil {
		log = slog.Default()
	}
	m := &Model{
		config:    cfg,
		store:     store,
		gen:       gen,
		entries:   entries,
		log:       log,
		clock:     time.Now,
		ideal:     cfg.IdealCount,
		stopwatch: stopwatch.NewWithInterval(100 * time.Millisecond),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	if cfg.FocusWeak {
		spellings, err := query.MinSpellings(entries)
		if err != nil {
			return nil, err
		}
		m.spellings = spellings
		m.refreshWeakSet()
	}
	if err := m.resetSession(); err != nil {
		return nil, err
	}
	m.loadFooterStats()
	return m, nil
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.stopwatch.Start()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, int(float64(msg.Width)*0.70))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenResult:
			return m.updateResult(msg)
		case screenError:
			return m, tea.Quit
		default:
			return m.updateTyping(msg)
		}
	default:
		var cmd tea.Cmd
		m.stopwatch, cmd = m.stopwatch.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return m, m.restart()
	}
	c, ok := keystroke(msg)
	if !ok {
		return m, nil
	}
	t, err := m.session.Input(c, m.clock().Sub(m.startedAt).Milliseconds())
	if err != nil {
		m.fail(err)
		return m, tea.Quit
	}
	if t.State == engine.Finished {
		m.finishSession(*t.Result)
		return m, m.stopwatch.Stop()
	}
	m.proj = *t.Projection
	return m, nil
}

func (m *Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEnter, msg.Type == tea.KeyEsc:
		return m, m.restart()
	case msg.Type == tea.KeyRunes && string(msg.Runes) == "i":
		m.ideal = !m.ideal
		m.last = m.result.Metrics(m.ideal)
	case msg.Type == tea.KeyRunes && string(msg.Runes) == "q":
		return m, tea.Quit
	}
	return m, nil
}

// keystroke accepts a single printable ASCII key.
func keystroke(msg tea.KeyMsg) (byte, bool) {
	if msg.Alt || msg.Paste {
		return 0, false
	}
	switch msg.Type {
	case tea.KeySpace:
		return ' ', true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 || !romaji.IsPrintableASCII(msg.Runes[0]) {
			return 0, false
		}
		return byte(msg.Runes[0]), true
	default:
		return 0, false
	}
}

func (m *Model) restart() tea.Cmd {
	if err := m.resetSession(); err != nil {
		m.fail(err)
		return tea.Quit
	}
	return tea.Batch(m.stopwatch.Reset(), m.stopwatch.Start())
}

func (m *Model) fail(err error) {
	m.err = err
	m.screen = screenError
	m.log.Error("typing session aborted", "error", err)
}

func (m *Model) resetSession() error {
	q, err := query.Build(m.entries, m.config.RomanCount, m.gen)
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	session, err := engine.NewSession(q.Chunks, engine.WithLapLength(m.config.LapLength))
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	m.query = q
	m.session = session
	m.proj = session.Projection()
	m.startedAt = m.clock()
	m.screen = screenTyping
	m.log.Debug("new query", "display", q.DisplayText, "chunks", len(q.Chunks), "roman", q.RomanCount)
	return nil
}

func (m *Model) finishSession(result engine.TypingResult) {
	m.proj = m.session.Projection()
	m.result = statsPkg.Summarize(result)
	m.screen = screenResult

	m.last = m.result.Metrics(m.ideal)
	m.hasLast = true
	m.all.IdealKeyCount += m.result.IdealKeyCount
	m.all.ActualKeyCount += m.result.ActualKeyCount
	m.all.MissCount += m.result.MissCount
	m.all.TotalTimeMs += m.result.TotalTimeMs

	if m.store == nil {
		return
	}
	endedAt := m.clock()
	stats := model.SessionStats{
		StartedAt:   m.startedAt,
		EndedAt:     endedAt,
		Dicts:       strings.Join(m.config.Dicts, ","),
		RomanCount:  m.config.RomanCount,
		IdealKeys:   m.result.IdealKeyCount,
		ActualKeys:  m.result.ActualKeyCount,
		MissCount:   m.result.MissCount,
		DurationMs:  m.result.TotalTimeMs,
		DisplayText: m.query.DisplayText,
	}
	if _, err := m.store.InsertSession(context.Background(), stats, statsPkg.KeyStats(result)); err != nil {
		m.log.Warn("failed to save session", "error", err)
	}
	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		m.log.Warn("failed to load session stats", "error", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	m.last = statsPkg.SessionMetrics(sessions[len(sessions)-1], m.ideal)
	m.hasLast = true
	for _, s := range sessions {
		m.all.IdealKeyCount += s.IdealKeys
		m.all.ActualKeyCount += s.ActualKeys
		m.all.MissCount += s.MissCount
		m.all.TotalTimeMs += s.DurationMs
	}
}

func (m *Model) refreshWeakSet() {
	if m.store == nil {
		return
	}
	aggs, err := m.store.GetWeakKeys(context.Background(), m.config.WeakWindow)
	if err != nil {
		m.log.Warn("failed to load weak keys", "error", err)
		return
	}
	if len(aggs) == 0 {
		if !m.weakNoticePrinted {
			m.log.Info("no stats available for weak-key focus yet; picking uniformly")
			m.weakNoticePrinted = true
		}
		m.gen.WithWeights(nil)
		return
	}
	weak := statsPkg.SelectWeakKeys(aggs, m.config.WeakTop)
	m.gen.WithWeights(generator.Weights(m.spellings, weak, m.config.WeakFactor))
}
