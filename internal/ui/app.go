package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/courier/internal/dispatch"
	"github.com/five82/courier/internal/logtail"
	"github.com/five82/courier/internal/prefs"
	"github.com/five82/courier/internal/render"
	"github.com/five82/courier/internal/state"
)

// Catalog is the read-only catalog view the UI offers for selection.
type Catalog interface {
	Loaded() bool
	Formats() []string
	Patterns() []string
}

// Dispatcher sends one request for a format and pattern.
type Dispatcher interface {
	Dispatch(ctx context.Context, format, pattern string) dispatch.Outcome
}

// ReloadFunc rebuilds the catalog and dispatcher from disk.
type ReloadFunc func() (Catalog, Dispatcher, error)

// ReloadRequested asks the model to reload the catalog. The file watcher
// delivers it through tea.Program.Send.
type ReloadRequested struct{}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Catalog    Catalog
	Dispatcher Dispatcher
	Reload     ReloadFunc
	Store      *state.Store
	Prefs      prefs.Prefs
	PrefsPath  string
	Endpoint   string
	LogFile    string
	LogLevel   slog.Level
	Logger     *slog.Logger
	PollTick   time.Duration
}

const (
	logTailLines     = 200
	patternPaneWidth = 28
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	catalog    Catalog
	dispatcher Dispatcher
	reload     ReloadFunc
	store      *state.Store
	prefs      prefs.Prefs
	prefsPath  string
	endpoint   string
	logFile    string
	logger     *slog.Logger
	pollTick   time.Duration

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	width    int
	height   int
	ready    bool
	showHelp bool

	// Selection
	formats    []string
	patterns   []string
	formatIdx  int
	patternIdx int

	// Output state
	mode       render.Mode
	verbose    bool
	inFlight   int
	snapshot   state.Snapshot
	historyIdx int // 0 is the newest outcome
	output     viewport.Model

	// Log pane
	showLogs bool
	logLevel slog.Level
	logLines []string
	logView  viewport.Model

	notice    string
	noticeErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}
	mode, err := render.ParseMode(opts.Prefs.Output)
	if err != nil {
		mode = render.ModeJSON
	}

	m := Model{
		ctx:        ctx,
		dispatcher: opts.Dispatcher,
		reload:     opts.Reload,
		store:      store,
		prefs:      opts.Prefs,
		prefsPath:  opts.PrefsPath,
		endpoint:   opts.Endpoint,
		logFile:    opts.LogFile,
		logger:     logger,
		pollTick:   pollTick,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		mode:       mode,
		snapshot:   store.Snapshot(),
		output:     viewport.New(0, 0),
		logLevel:   opts.LogLevel,
		logView:    viewport.New(0, 0),
	}
	m.applyTheme(GetTheme(opts.Prefs.Theme))
	m.setCatalog(opts.Catalog, opts.Prefs.Format, "")
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.pollTick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.refreshOutput()
		m.updateLogView()
		return m, nil

	case spinner.TickMsg:
		if m.inFlight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case outcomeMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		m.snapshot = m.store.Snapshot()
		m.historyIdx = 0
		m.refreshOutput()
		return m, nil

	case ReloadRequested:
		return m, m.reloadCmd()

	case catalogMsg:
		return m.handleCatalog(msg), nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.showLogs {
			cmds = append(cmds, readLogsCmd(m.logFile, m.logLevel))
		}
		return m, tea.Batch(cmds...)

	case logLinesMsg:
		if msg.err != nil {
			m.logLines = []string{"log unavailable: " + msg.err.Error()}
		} else {
			m.logLines = msg.lines
		}
		m.updateLogView()
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", msg.err)
			m.setNotice("prefs not saved: "+msg.err.Error(), true)
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
		m.prefs.Theme = m.theme.Name
		return m, m.savePrefs()

	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadCmd()

	case key.Matches(msg, m.keys.PrevFormat):
		return m.moveFormat(-1)

	case key.Matches(msg, m.keys.NextFormat):
		return m.moveFormat(1)

	case key.Matches(msg, m.keys.Up):
		if m.patternIdx > 0 {
			m.patternIdx--
			m.refreshPlaceholder()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.patternIdx < len(m.patterns)-1 {
			m.patternIdx++
			m.refreshPlaceholder()
		}
		return m, nil

	case key.Matches(msg, m.keys.Send):
		return m.send()

	case key.Matches(msg, m.keys.CycleOutput):
		m.mode = m.mode.Next()
		m.prefs.Output = string(m.mode)
		m.refreshOutput()
		return m, m.savePrefs()

	case key.Matches(msg, m.keys.ToggleHeaders):
		m.verbose = !m.verbose
		m.refreshOutput()
		return m, nil

	case key.Matches(msg, m.keys.Older):
		if m.historyIdx < len(m.snapshot.History)-1 {
			m.historyIdx++
			m.refreshOutput()
		}
		return m, nil

	case key.Matches(msg, m.keys.Newer):
		if m.historyIdx > 0 {
			m.historyIdx--
			m.refreshOutput()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.output.HalfPageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.output.HalfPageDown()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.resize()
		if m.showLogs {
			return m, readLogsCmd(m.logFile, m.logLevel)
		}
		return m, nil

	case key.Matches(msg, m.keys.LogLevel):
		m.logLevel = nextLevel(m.logLevel)
		if m.showLogs {
			return m, readLogsCmd(m.logFile, m.logLevel)
		}
		return m, nil
	}

	return m, nil
}

// send starts a dispatch for the current selection off the UI loop.
func (m Model) send() (tea.Model, tea.Cmd) {
	if m.dispatcher == nil {
		m.setNotice("no dispatcher configured", true)
		return m, nil
	}
	format, pattern := m.selectedFormat(), m.selectedPattern()

	m.notice = ""
	m.inFlight++
	m.store.Begin()
	m.snapshot = m.store.Snapshot()

	cmds := []tea.Cmd{dispatchCmd(m.ctx, m.dispatcher, m.store, format, pattern)}
	if m.inFlight == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) moveFormat(delta int) (tea.Model, tea.Cmd) {
	if len(m.formats) == 0 {
		return m, nil
	}
	n := len(m.formats)
	m.formatIdx = ((m.formatIdx+delta)%n + n) % n
	m.prefs.Format = m.formats[m.formatIdx]
	m.refreshPlaceholder()
	return m, m.savePrefs()
}

func (m Model) handleCatalog(msg catalogMsg) Model {
	if msg.err != nil {
		m.logger.Warn("catalog reload failed", "error", msg.err)
		m.setNotice("reload failed: "+msg.err.Error(), true)
		return m
	}
	if msg.dispatcher != nil {
		m.dispatcher = msg.dispatcher
	}
	m.setCatalog(msg.catalog, m.selectedFormat(), m.selectedPattern())
	if m.catalog == nil || !m.catalog.Loaded() {
		m.setNotice("catalog reloaded but not loaded", true)
	} else {
		m.setNotice(fmt.Sprintf("catalog reloaded: %d formats, %d patterns", len(m.formats), len(m.patterns)), false)
	}
	m.refreshPlaceholder()
	return m
}

// setCatalog replaces the selectable lists, keeping the named selections when
// they still exist.
func (m *Model) setCatalog(c Catalog, format, pattern string) {
	m.catalog = c
	m.formats, m.patterns = nil, nil
	if c != nil {
		m.formats = c.Formats()
		m.patterns = c.Patterns()
	}
	m.formatIdx = max(slices.Index(m.formats, format), 0)
	m.patternIdx = max(slices.Index(m.patterns, pattern), 0)
}

func (m Model) selectedFormat() string {
	if m.formatIdx < len(m.formats) {
		return m.formats[m.formatIdx]
	}
	return ""
}

func (m Model) selectedPattern() string {
	if m.patternIdx < len(m.patterns) {
		return m.patterns[m.patternIdx]
	}
	return ""
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	styles := t.Styles()
	m.spinner.Style = styles.AccentText
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.Ellipsis = styles.FaintText
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

// resize recomputes viewport sizes from the window and pane visibility.
func (m *Model) resize() {
	body, logs := m.layout()
	m.output.Width = max(m.width-patternPaneWidth-4, 10)
	m.output.Height = max(body-3, 1)
	m.logView.Width = max(m.width-2, 10)
	m.logView.Height = max(logs-3, 1)
	m.help.Width = m.width
}

// layout splits the rows between the main body and the log pane.
func (m Model) layout() (body, logs int) {
	avail := m.height - 3 // header, format row, command bar
	if m.showLogs {
		logs = max(avail/3, 4)
	}
	return max(avail-logs, 4), logs
}

func (m *Model) refreshOutput() {
	m.output.SetContent(m.outputContent())
	m.output.GotoTop()
}

// refreshPlaceholder redraws the output only while it shows the selection hint.
func (m *Model) refreshPlaceholder() {
	if len(m.snapshot.History) == 0 {
		m.refreshOutput()
	}
}

func (m Model) outputContent() string {
	if len(m.snapshot.History) == 0 {
		if m.catalog == nil || !m.catalog.Loaded() {
			return "Catalog not loaded. Fix the format and params files, then press r."
		}
		return fmt.Sprintf("Press enter to send %s/%s.", m.selectedFormat(), m.selectedPattern())
	}
	o := m.snapshot.History[m.historyIdx]
	text, err := render.Outcome(o, m.mode, m.verbose)
	if err != nil {
		return fmt.Sprintf("render %s: %v\n\n%s", m.mode, err, o.RawBody)
	}
	return text
}

func (m *Model) updateLogView() {
	content := "No log lines."
	if len(m.logLines) > 0 {
		content = joinLines(m.logLines)
	}
	m.logView.SetContent(content)
	m.logView.GotoBottom()
}

func (m Model) savePrefs() tea.Cmd {
	if m.prefsPath == "" {
		return nil
	}
	path, p := m.prefsPath, m.prefs
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	fn := m.reload
	if fn == nil {
		return nil
	}
	return func() tea.Msg {
		c, d, err := fn()
		return catalogMsg{catalog: c, dispatcher: d, err: err}
	}
}

func nextLevel(l slog.Level) slog.Level {
	switch {
	case l < slog.LevelInfo:
		return slog.LevelInfo
	case l < slog.LevelWarn:
		return slog.LevelWarn
	case l < slog.LevelError:
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Messages

type tickMsg time.Time

type outcomeMsg dispatch.Outcome

type catalogMsg struct {
	catalog    Catalog
	dispatcher Dispatcher
	err        error
}

type logLinesMsg struct {
	lines []string
	err   error
}

type prefsSavedMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// dispatchCmd runs the dispatch and records it in the store from the command
// goroutine; the model only reads snapshots.
func dispatchCmd(ctx context.Context, d Dispatcher, store *state.Store, format, pattern string) tea.Cmd {
	return func() tea.Msg {
		o := d.Dispatch(ctx, format, pattern)
		store.Record(o)
		return outcomeMsg(o)
	}
}

func readLogsCmd(path string, level slog.Level) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines, level)
		return logLinesMsg{lines: lines, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits. When
// reloads is non-nil, each receive is forwarded as ReloadRequested.
func Run(opts Options, reloads <-chan struct{}) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	if reloads != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			for {
				select {
				case <-done:
					return
				case _, ok := <-reloads:
					if !ok {
						return
					}
					p.Send(ReloadRequested{})
				}
			}
		}()
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context.Err() != nil {
		return nil
	}
	return err
}
