// Package tui provides the interactive Bubble Tea dashboard for paytrend.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/paytrend/internal/cli"
	"github.com/theirongolddev/paytrend/internal/config"
	"github.com/theirongolddev/paytrend/internal/model"
	"github.com/theirongolddev/paytrend/internal/pipeline"
	"github.com/theirongolddev/paytrend/internal/tui/components"
	"github.com/theirongolddev/paytrend/internal/tui/theme"
)

// Loader produces the consolidated records shown by the dashboard.
type Loader func(cfg config.Config, progress pipeline.ProgressFunc) ([]model.Record, error)

// DataLoadedMsg is sent when the loader finishes.
type DataLoadedMsg struct {
	Records  []model.Record
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports how many sources have been normalized.
type ProgressMsg struct {
	Current int
	Total   int
}

// Options configures a new App.
type Options struct {
	Config    config.Config
	NeedSetup bool // show the setup form before loading
}

// App is the root Bubble Tea model.
type App struct {
	cfg  config.Config
	load Loader

	// Data
	records  []model.Record
	views    []seriesView
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	table     table.Model

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	saveErr   error

	// Loading, with progress streamed from the loader goroutine
	spinner     spinner.Model
	bar         progress.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 160
	minTableHeight   = 3
)

// NewApp creates a new dashboard model.
func NewApp(load Loader, opts Options) App {
	t := theme.Active

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	a := App{
		cfg:     opts.Config,
		load:    load,
		spinner: sp,
		bar:     progress.New(progress.WithSolidFill(string(t.Accent)), progress.WithWidth(40), progress.WithoutPercentage()),
		table:   newTable(),
		loadSub: make(chan tea.Msg, 1),
	}
	a.layoutTable()
	if opts.NeedSetup {
		a.setupVals = NewSetupValues(opts.Config)
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

func newTable() table.Model {
	t := theme.Active
	tbl := table.New(table.WithFocused(true), table.WithHeight(minTableHeight))
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(t.TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(t.TextPrimary)
	s.Selected = s.Selected.Foreground(t.Accent).Background(t.Selected).Bold(true)
	tbl.SetStyles(s)
	return tbl
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.setupForm != nil {
		return a.setupForm.Init()
	}
	return a.startLoad()
}

func (a App) startLoad() tea.Cmd {
	return tea.Batch(loadDataCmd(a.load, a.cfg, a.loadSub), a.spinner.Tick)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		a.layoutTable()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		return a.updateKeys(msg)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case DataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		a.records = msg.Records
		a.recompute()
		return a, nil

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	switch key {
	case "right", "l", "tab":
		a.selectTab((a.activeTab + 1) % len(components.Tabs))
		return a, nil
	case "left", "h", "shift+tab":
		a.selectTab((a.activeTab + len(components.Tabs) - 1) % len(components.Tabs))
		return a, nil
	case "r":
		a.loaded = false
		a.loadErr = nil
		a.progress, a.progressMax = 0, 0
		return a, a.startLoad()
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.selectTab(idx)
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.setupVals.Apply(&a.cfg)
		theme.SetActive(a.cfg.Appearance.Theme)
		a.table = newTable()
		a.layoutTable()
		a.saveErr = config.Save(a.cfg)
		a.setupForm = nil
		return a, a.startLoad()
	case huh.StateAborted:
		a.setupForm = nil
		return a, a.startLoad()
	}
	return a, cmd
}

func (a *App) selectTab(idx int) {
	a.activeTab = idx
	a.refreshTable()
}

func (a *App) recompute() {
	opts := pipeline.AggregateOptions{MissingAsZero: a.cfg.General.MissingAsZero}
	a.views = buildViews(a.records, opts, a.cfg.General.ForecastMonths)
	a.refreshTable()
}

func (a *App) refreshTable() {
	if a.activeTab >= len(a.views) {
		a.table.SetRows(nil)
		return
	}
	a.table.SetRows(a.views[a.activeTab].rows())
	a.table.GotoTop()
}

func (a *App) layoutTable() {
	w := a.contentWidth()/2 - 4
	if w < 40 {
		w = 40
	}
	monthW := 8
	rest := w - monthW - 6
	a.table.SetWidth(w)
	a.table.SetColumns([]table.Column{
		{Title: "Month", Width: monthW},
		{Title: "Amount", Width: rest * 2 / 5},
		{Title: "MoM", Width: rest / 5},
		{Title: "Status", Width: rest - rest*2/5 - rest/5},
	})

	h := a.height - 23
	if h < minTableHeight {
		h = minTableHeight
	}
	a.table.SetHeight(h)
}

func (a App) contentWidth() int {
	if a.width > maxContentWidth {
		return maxContentWidth
	}
	return a.width
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  paytrend needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewError()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	logo := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logo.Render("◈ paytrend"))
	b.WriteString(muted.Render(" · Digital payments in India"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	if a.progressMax > 0 {
		b.WriteString(muted.Render(fmt.Sprintf(" Normalizing sources %d/%d", a.progress, a.progressMax)))
		b.WriteString("\n\n")
		b.WriteString(a.bar.ViewAs(float64(a.progress) / float64(a.progressMax)))
	} else {
		b.WriteString(muted.Render(" Reading sources..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewError() string {
	t := theme.Active
	body := lipgloss.NewStyle().Foreground(t.Red).Render("Could not load data") + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextPrimary).Width(a.contentWidth()-8).Render(a.loadErr.Error()) + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextMuted).Render("[r] retry  [q] quit")
	return components.ContentCard("paytrend", body, a.contentWidth())
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.contentWidth()

	if len(a.views) == 0 || a.activeTab >= len(a.views) {
		return components.ContentCard("paytrend", "No records to show.", w)
	}
	v := a.views[a.activeTab]
	color := t.Series(v.platform)

	var b strings.Builder
	b.WriteString(components.RenderTabBar(a.activeTab, w))
	b.WriteString("\n")
	b.WriteString(components.MetricCardRow(v.metrics(color), w))
	b.WriteString("\n")

	halves := components.LayoutRow(w, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Monthly amount (INR)", v.sparkline(components.CardInnerWidth(halves[0]), color), halves[0]),
		components.ContentCard(v.forecastTitle(), v.forecastBody(components.CardInnerWidth(halves[1]), color), halves[1]),
	}))
	b.WriteString("\n")
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Months", a.table.View(), halves[0]),
		components.ContentCard("Yearly totals", v.yearlyBars(components.CardInnerWidth(halves[1]), color), halves[1]),
	}))
	b.WriteString("\n")

	info := fmt.Sprintf("%d records · loaded in %s", len(a.records), a.loadTime.Round(time.Millisecond))
	if a.saveErr != nil {
		info = "config not saved: " + a.saveErr.Error()
	}
	b.WriteString(components.RenderStatusBar(w, info))

	return truncateHeight(b.String(), a.height)
}

// loadDataCmd runs the loader in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(load Loader, cfg config.Config, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking so workers are never stalled by the UI.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			records, err := load(cfg, progressFn)
			sub <- DataLoadedMsg{Records: records, Err: err, LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func truncateHeight(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

// shortINR is FormatINR without the currency sign, for tight columns.
func shortINR(v float64) string {
	return strings.Replace(cli.FormatINR(v), "₹", "", 1)
}
