package ui

import (
	"context"
	"os"
	"strconv"
	"strings"

	chatservice "github.com/boddenberg/sarathi-client-go/internal/chat/service"
	"github.com/boddenberg/sarathi-client-go/internal/port"
	"github.com/boddenberg/sarathi-client-go/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Deps are the containers and devices the screens work with.
type Deps struct {
	Auth      *store.AuthStore
	Trips     *store.TripsStore
	Vehicles  *store.VehiclesStore
	Financial *store.FinancialStore
	Alerts    *store.AlertsStore
	Chat      *chatservice.ChatService

	// Recorder and Player may be nil; voice features are then hidden.
	Recorder port.Recorder
	Player   port.Player

	// StatsDays is the trips window shown on the dashboard and trips tab.
	StatsDays int
	// ReadFile loads health check photos. Defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
	Version  string
	Logger   *zap.Logger
}

// ============================================================
// Screens and messages
// ============================================================

// screen is one page of the UI. View reads container snapshots directly so
// every render reflects the latest state.
type screen interface {
	Title() string
	// Init runs when the screen is mounted or its tab becomes active.
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(e env) string
	// Help is the one-line key hint.
	Help() string
}

// unmounter is implemented by screens holding resources that must be
// released when the screen leaves the stack.
type unmounter interface {
	Unmount()
}

// env is what a screen needs to render.
type env struct {
	st      Styles
	width   int
	height  int
	spinner string
}

func (e env) loading(what string) string {
	return e.spinner + " " + e.st.Muted.Render("Loading "+what+"...")
}

type (
	// changedMsg reports that some container changed.
	changedMsg struct{}
	// pushMsg opens a stack screen.
	pushMsg struct{ s screen }
	// popMsg closes the top stack screen.
	popMsg struct{}
	// showAuthMsg swaps between the login and register screens.
	showAuthMsg struct{ register bool }
	// noticeMsg shows a one-off confirmation.
	noticeMsg struct{ text string }
	// resultMsg is the outcome of a write action started by from.
	resultMsg struct {
		from     screen
		err      error
		fallback string
		notice   string
		pop      bool
	}
)

func push(s screen) tea.Cmd { return func() tea.Msg { return pushMsg{s} } }

func pop() tea.Msg { return popMsg{} }

func notice(text string) tea.Cmd { return func() tea.Msg { return noticeMsg{text} } }

// run executes a container action off the UI goroutine. Read actions
// report through the container's own state, so the message is nil.
func run(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// write executes a write action and reports its outcome to the shell.
func write(from screen, fallback, done string, pop bool, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{from: from, err: fn(), fallback: fallback, notice: done, pop: pop}
	}
}

// ============================================================
// Change bridge
// ============================================================

// changes turns container notifications into Bubble Tea messages. Bursts
// of notifications collapse into one render.
type changes struct {
	ch   chan struct{}
	done chan struct{}
}

func newChanges() *changes {
	return &changes{ch: make(chan struct{}, 1), done: make(chan struct{})}
}

func (c *changes) notify() {
	select {
	case c.ch <- struct{}{}:
	default:
	}
}

func (c *changes) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-c.ch:
			return changedMsg{}
		case <-c.done:
			return nil
		}
	}
}

// ============================================================
// Shell
// ============================================================

var tabNames = []string{"Dashboard", "Earnings", "Health", "Goals", "Growth"}

// Shell is the root model. It shows the login flow or the tab set,
// depending on the auth container, and re-evaluates that choice on every
// auth change.
type Shell struct {
	ctx  context.Context
	deps Deps
	st   Styles

	changes *changes
	unsubs  []func()
	spinner spinner.Model

	width, height int
	// markdown is the glamour style, chosen before the program owns the
	// terminal.
	markdown string

	authed bool
	auth   screen

	tabs   []screen
	active int
	stack  []screen

	alert  string
	notice string
}

// NewShell builds the root model. ctx bounds every action the UI starts.
func NewShell(ctx context.Context, deps Deps) *Shell {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.ReadFile == nil {
		deps.ReadFile = os.ReadFile
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	if deps.StatsDays <= 0 {
		deps.StatsDays = 30
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	st := DefaultStyles()
	sp.Style = st.Spinner

	s := &Shell{
		ctx:     ctx,
		deps:    deps,
		st:      st,
		changes: newChanges(),
		spinner: sp,
		width:   80,
		height:  24,
	}
	s.markdown = "light"
	if lipgloss.HasDarkBackground() {
		s.markdown = "dark"
	}
	s.auth = newLoginScreen(s)
	return s
}

// Init subscribes to every container and restores a saved session.
func (s *Shell) Init() tea.Cmd {
	d := s.deps
	s.unsubs = append(s.unsubs,
		d.Auth.Subscribe(s.changes.notify),
		d.Trips.Subscribe(s.changes.notify),
		d.Vehicles.Subscribe(s.changes.notify),
		d.Financial.Subscribe(s.changes.notify),
		d.Alerts.Subscribe(s.changes.notify),
		d.Chat.Subscribe(s.changes.notify),
	)

	return tea.Batch(
		s.changes.wait(),
		s.spinner.Tick,
		run(func() { d.Auth.LoadUser(s.ctx) }),
		s.auth.Init(),
	)
}

// Close stops listening to the containers and releases stack screens.
func (s *Shell) Close() {
	for _, u := range s.unsubs {
		u()
	}
	s.unsubs = nil
	s.unmountStack()
	select {
	case <-s.changes.done:
	default:
		close(s.changes.done)
	}
}

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		return s, s.forward(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case changedMsg:
		return s, tea.Batch(s.changes.wait(), s.syncAuth(), s.forward(msg))

	case pushMsg:
		s.stack = append(s.stack, msg.s)
		return s, msg.s.Init()

	case popMsg:
		s.popScreen()
		return s, s.current().Init()

	case showAuthMsg:
		if msg.register {
			s.auth = newRegisterScreen(s)
		} else {
			s.auth = newLoginScreen(s)
		}
		return s, s.auth.Init()

	case noticeMsg:
		s.notice, s.alert = msg.text, ""
		return s, nil

	case resultMsg:
		return s, s.handleResult(msg)

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	return s, s.forward(msg)
}

func (s *Shell) handleResult(msg resultMsg) tea.Cmd {
	cmd := msg.from.Update(msg)
	if msg.err != nil {
		if msg.fallback != "" {
			s.alert = store.ErrorMessage(msg.err, msg.fallback)
			s.notice = ""
		}
		return cmd
	}
	if msg.notice != "" {
		s.notice, s.alert = msg.notice, ""
	}
	if msg.pop && len(s.stack) > 0 && s.stack[len(s.stack)-1] == msg.from {
		s.popScreen()
		return tea.Batch(cmd, s.current().Init())
	}
	return cmd
}

func (s *Shell) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		s.Close()
		return tea.Quit
	}

	// any key acknowledges a pending alert or notice
	if s.alert != "" || s.notice != "" {
		s.alert, s.notice = "", ""
		if key == "esc" || key == "enter" {
			return nil
		}
	}

	if !s.authed {
		return s.auth.Update(msg)
	}

	if len(s.stack) > 0 {
		if key == "esc" {
			return pop
		}
		return s.current().Update(msg)
	}

	// tabs take no typed input, so letter keys navigate
	switch key {
	case "q":
		s.Close()
		return tea.Quit
	case "tab", "right", "l":
		return s.selectTab((s.active + 1) % len(s.tabs))
	case "shift+tab", "left", "h":
		return s.selectTab((s.active + len(s.tabs) - 1) % len(s.tabs))
	case "1", "2", "3", "4", "5":
		return s.selectTab(int(key[0] - '1'))
	case "a":
		return push(newAddTripScreen(s))
	case "c":
		return push(newChatScreen(s))
	case "p":
		return push(newProfileScreen(s))
	case "b":
		return push(newAlertsScreen(s))
	}
	return s.current().Update(msg)
}

func (s *Shell) selectTab(i int) tea.Cmd {
	if i == s.active {
		return nil
	}
	s.active = i
	return s.tabs[i].Init()
}

// syncAuth switches branches when the authenticated flag changed.
func (s *Shell) syncAuth() tea.Cmd {
	authed := s.deps.Auth.Snapshot().Authenticated
	if authed == s.authed {
		return nil
	}
	s.authed = authed
	s.alert, s.notice = "", ""

	if !authed {
		s.unmountStack()
		s.tabs = nil
		s.auth = newLoginScreen(s)
		return s.auth.Init()
	}

	s.tabs = []screen{
		newHomeScreen(s),
		newTripsScreen(s),
		newVehicleScreen(s),
		newGoalsScreen(s),
		newInvestmentsScreen(s),
	}
	s.active = 0
	return s.tabs[0].Init()
}

func (s *Shell) current() screen {
	if !s.authed {
		return s.auth
	}
	if n := len(s.stack); n > 0 {
		return s.stack[n-1]
	}
	return s.tabs[s.active]
}

func (s *Shell) forward(msg tea.Msg) tea.Cmd {
	return s.current().Update(msg)
}

func (s *Shell) popScreen() {
	n := len(s.stack)
	if n == 0 {
		return
	}
	top := s.stack[n-1]
	s.stack = s.stack[:n-1]
	if u, ok := top.(unmounter); ok {
		u.Unmount()
	}
}

func (s *Shell) unmountStack() {
	for len(s.stack) > 0 {
		s.popScreen()
	}
}

// ============================================================
// Rendering
// ============================================================

func (s *Shell) View() string {
	e := env{st: s.st, width: s.width, height: s.height, spinner: s.spinner.View()}

	var b strings.Builder
	b.WriteString(s.header())
	b.WriteString("\n")

	if s.authed && len(s.stack) == 0 {
		b.WriteString(s.tabBar())
		b.WriteString("\n\n")
	} else {
		b.WriteString(s.st.Title.Render(s.current().Title()))
		b.WriteString("\n")
	}

	b.WriteString(s.current().View(e))
	b.WriteString("\n")

	if s.alert != "" {
		b.WriteString(s.st.Alert.Render("⚠ " + s.alert))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString(s.st.Notice.Render("✓ " + s.notice))
		b.WriteString("\n")
	}

	b.WriteString(s.st.Help.Render(s.help()))
	return b.String()
}

func (s *Shell) header() string {
	title := "Sarathi"
	if s.authed {
		if u := s.deps.Auth.Snapshot().User; u != nil {
			title += " · " + u.Name
		}
		if n := s.deps.Alerts.Snapshot().Unread(); n > 0 {
			title += " · 🔔 " + strconv.Itoa(n)
		}
	}
	return s.st.Header.Width(s.width).Render(title)
}

func (s *Shell) tabBar() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := strconv.Itoa(i+1) + " " + name
		if i == s.active {
			parts[i] = s.st.ActiveTab.Render(label)
		} else {
			parts[i] = s.st.Tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (s *Shell) help() string {
	h := s.current().Help()
	switch {
	case !s.authed:
	case len(s.stack) > 0:
		h = join(h, "esc back")
	default:
		h = join(h, "tab switch · a add trip · c chat · p profile · b alerts · q quit")
	}
	return join(h, "ctrl+c exit")
}

func join(a, b string) string {
	if a == "" {
		return b
	}
	return a + " · " + b
}
