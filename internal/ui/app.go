package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/pokedeck/internal/catalog"
	"github.com/abelbrown/pokedeck/internal/config"
	"github.com/abelbrown/pokedeck/internal/notify"
	"github.com/abelbrown/pokedeck/internal/otel"
	"github.com/abelbrown/pokedeck/internal/pager"
	"github.com/abelbrown/pokedeck/internal/scene"
	"github.com/abelbrown/pokedeck/internal/sprite"
)

const (
	panelWidth   = 34
	orbitStep    = math.Pi / 12
	minCameraDst = 4
	maxCameraDst = 24
)

// Pager is the catalog state the App drives. *pager.Pager satisfies it.
type Pager interface {
	Snapshot() pager.State
	Start(ctx context.Context) error
	GoToNextPage(ctx context.Context) error
	GoToPreviousPage(ctx context.Context) error
	GoToPage(ctx context.Context, n int) error
	Reload(ctx context.Context) error
	SelectAndLoadDetail(ctx context.Context, item catalog.SummaryItem) error
}

// Sprites resolves card art. *sprite.Loader satisfies it.
type Sprites interface {
	Prefetch(ctx context.Context, ids []int) ([]sprite.Result, error)
}

// ObsConfig wires observability into the App.
type ObsConfig struct {
	Logger *otel.Logger
	Ring   *otel.RingBuffer
}

// AppConfig holds everything the App needs. Nil Sprites disables art; a
// nil Notices channel disables toasts.
type AppConfig struct {
	Context  context.Context
	Pager    Pager
	Sprites  Sprites
	Notices  <-chan notify.Notice
	Settings *config.Config
	Obs      ObsConfig
}

// App is the root Bubble Tea model.
// IMPORTANT: App never blocks on the network. Every pager call runs in a
// tea.Cmd and reports back with PagerUpdated.
type App struct {
	ctx     context.Context
	pager   Pager
	sprites Sprites
	notices <-chan notify.Notice
	logger  *otel.Logger
	ring    *otel.RingBuffer

	animator  scene.Animator
	rig       cameraRig
	radius    float64
	frame     time.Duration
	lastFrame time.Time

	state      pager.State
	hovered    int
	bases      []scene.Vec3
	transforms []scene.Transform
	art        map[int]sprite.Result
	artPending map[int]bool

	spinner   spinner.Model
	gotoInput textinput.Model
	prompting bool
	notice    *notify.Notice

	width        int
	height       int
	ready        bool
	debugVisible bool
}

// NewAppWithConfig creates an App from cfg.
func NewAppWithConfig(cfg AppConfig) App {
	settings := cfg.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	ti := textinput.New()
	ti.Prompt = "go to page: "
	ti.Placeholder = "number"
	ti.CharLimit = 6
	ti.PromptStyle = StatusBarKey

	return App{
		ctx:        ctx,
		pager:      cfg.Pager,
		sprites:    cfg.Sprites,
		notices:    cfg.Notices,
		logger:     cfg.Obs.Logger,
		ring:       cfg.Obs.Ring,
		animator:   scene.NewAnimator(settings.Animation),
		rig:        newCameraRig(scene.NewCamera(settings.Scene.CameraDistance), settings.Animation.FrameInterval()),
		radius:     settings.Scene.Radius,
		frame:      settings.Animation.FrameInterval(),
		art:        make(map[int]sprite.Result),
		artPending: make(map[int]bool),
		spinner:    s,
		gotoInput:  ti,
	}
}

// Init starts the first page load, the animation clock and the notice feed.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.tick(), a.spinner.Tick, a.waitNotice()}
	if a.pager != nil {
		p := a.pager
		cmds = append(cmds, a.run(OpStart, p.Start))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, isFrame := msg.(frameMsg); !isFrame && otel.TraceEnabled() {
		a.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.gotoInput.Width = max(msg.Width-20, 6)
		return a, nil

	case PagerUpdated:
		if msg.Err != nil && !errors.Is(msg.Err, pager.ErrStale) && !errors.Is(msg.Err, pager.ErrClosed) {
			a.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgHandled, Comp: "ui", Msg: string(msg.Op), Err: msg.Err.Error()})
		}
		cmd := a.sync()
		return a, cmd

	case SelectItem:
		cmd := a.selectItem(msg.Item)
		return a, cmd

	case SpritesLoaded:
		for _, id := range msg.IDs {
			delete(a.artPending, id)
		}
		// Only successes are kept; a missing sprite is asked for again on
		// the next sync.
		for _, r := range msg.Results {
			if r.ID > 0 && r.State == sprite.StateLoaded {
				a.art[r.ID] = r
			}
		}
		return a, nil

	case NoticeReceived:
		n := msg.Notice
		a.notice = &n
		return a, a.waitNotice()

	case frameMsg:
		a.step(msg.at)
		return a, a.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	a.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeyPress, Comp: "ui", Msg: key})

	if a.prompting {
		return a.handlePromptKey(msg)
	}

	switch key {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "?":
		a.debugVisible = !a.debugVisible
		return a, nil

	case "esc":
		a.debugVisible = false
		return a, nil

	case "left", "a":
		if n := len(a.state.Items); n > 0 {
			a.hovered = (a.hovered - 1 + n) % n
		}
		return a, nil

	case "right", "d":
		if n := len(a.state.Items); n > 0 {
			a.hovered = (a.hovered + 1) % n
		}
		return a, nil

	case "enter", " ":
		if a.hovered < len(a.state.Items) {
			cmd := a.selectItem(a.state.Items[a.hovered])
			return a, cmd
		}
		return a, nil

	case "n":
		if a.pager == nil || a.state.Loading || !a.state.HasNext() {
			return a, nil
		}
		a.state.Loading = true
		return a, a.run(OpNext, a.pager.GoToNextPage)

	case "p":
		if a.pager == nil || a.state.Loading || !a.state.HasPrevious() {
			return a, nil
		}
		a.state.Loading = true
		return a, a.run(OpPrevious, a.pager.GoToPreviousPage)

	case "r":
		if a.pager == nil {
			return a, nil
		}
		a.state.Loading = true
		return a, a.run(OpReload, a.pager.Reload)

	case ":", "g":
		a.prompting = true
		a.gotoInput.SetValue("")
		a.gotoInput.Focus()
		return a, textinput.Blink

	case "h":
		a.rig.orbit(-orbitStep)
		return a, nil

	case "l":
		a.rig.orbit(orbitStep)
		return a, nil

	case "+", "=":
		a.rig.zoom(0.9)
		return a, nil

	case "-", "_":
		a.rig.zoom(1 / 0.9)
		return a, nil
	}

	return a, nil
}

func (a App) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		a.prompting = false
		a.gotoInput.Blur()
		return a, nil

	case "enter":
		a.prompting = false
		a.gotoInput.Blur()
		n, err := strconv.Atoi(strings.TrimSpace(a.gotoInput.Value()))
		if err != nil {
			a.flash("not a page number", notify.KindWarning)
			return a, nil
		}
		if n < 1 || n > a.state.TotalPages() {
			a.flash(fmt.Sprintf("page %d is out of range", n), notify.KindWarning)
			return a, nil
		}
		if a.pager == nil {
			return a, nil
		}
		a.state.Loading = true
		p := a.pager
		return a, a.run(OpGoto, func(ctx context.Context) error { return p.GoToPage(ctx, n) })
	}

	var cmd tea.Cmd
	a.gotoInput, cmd = a.gotoInput.Update(msg)
	return a, cmd
}

// flash shows a local notice that did not come from the bus.
func (a *App) flash(message string, kind notify.Kind) {
	a.notice = &notify.Notice{ID: -1, Message: message, Kind: kind, Duration: 2 * time.Second, At: time.Now()}
}

// run wraps a pager call in a command.
func (a App) run(op Op, fn func(context.Context) error) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return PagerUpdated{Op: op, Err: fn(ctx)}
	}
}

func (a *App) selectItem(item catalog.SummaryItem) tea.Cmd {
	if a.pager == nil {
		return nil
	}
	a.state.LoadingDetail = true
	p := a.pager
	return a.run(OpSelect, func(ctx context.Context) error { return p.SelectAndLoadDetail(ctx, item) })
}

// sync reads the pager state and re-lays out the cards when the list
// changed. Returns a command fetching any art the new state needs.
func (a *App) sync() tea.Cmd {
	if a.pager == nil {
		return nil
	}
	prev := a.state
	a.state = a.pager.Snapshot()

	if !sameItems(prev.Items, a.state.Items) {
		a.bases = scene.Layout(len(a.state.Items), a.radius)
		a.transforms = make([]scene.Transform, len(a.bases))
		for i, b := range a.bases {
			a.transforms[i] = scene.RestingTransform(b)
		}
		if prev.CurrentPage != a.state.CurrentPage || a.hovered >= len(a.state.Items) {
			a.hovered = 0
		}
	}
	return a.fetchArt()
}

func sameItems(a, b []catalog.SummaryItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fetchArt requests sprites for the selection and the visible page.
func (a *App) fetchArt() tea.Cmd {
	if a.sprites == nil {
		return nil
	}
	var ids []int
	want := func(id int) {
		if id <= 0 || a.artPending[id] {
			return
		}
		if _, ok := a.art[id]; ok {
			return
		}
		a.artPending[id] = true
		ids = append(ids, id)
	}
	if a.state.Selected != nil {
		want(a.state.Selected.ID)
	}
	for _, it := range a.state.Items {
		want(it.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	ctx, sprites := a.ctx, a.sprites
	return func() tea.Msg {
		results, err := sprites.Prefetch(ctx, ids)
		return SpritesLoaded{IDs: ids, Results: results, Err: err}
	}
}

// step advances every card and the camera one frame and expires the notice.
func (a *App) step(now time.Time) {
	delta := a.frame.Seconds()
	if !a.lastFrame.IsZero() {
		delta = now.Sub(a.lastFrame).Seconds()
	}
	a.lastFrame = now

	selected := a.selectedName()
	for i := range a.transforms {
		item := a.state.Items[i]
		a.transforms[i] = a.animator.Step(a.transforms[i], a.bases[i], i == a.hovered, item.Name == selected, delta)
	}

	a.rig.update()

	if a.notice != nil && a.notice.Expired(now) {
		a.notice = nil
	}
}

func (a App) selectedName() string {
	if a.state.Selected == nil {
		return ""
	}
	return a.state.Selected.Name
}

func (a App) tick() tea.Cmd {
	return tea.Tick(a.frame, func(t time.Time) tea.Msg { return frameMsg{at: t} })
}

// waitNotice blocks on the notice feed. It stops when the feed closes.
func (a App) waitNotice() tea.Cmd {
	ch := a.notices
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NoticeReceived{Notice: n}
	}
}

// cards describes every card on the current page.
func (a App) cards() []*scene.Node {
	selected := a.selectedName()
	out := make([]*scene.Node, len(a.state.Items))
	for i, item := range a.state.Items {
		spec := scene.CardSpec{
			Item:      item,
			Base:      a.bases[i],
			Transform: a.transforms[i],
			Hovered:   i == a.hovered,
			Selected:  item.Name == selected,
		}
		if spec.Selected {
			spec.Detail = a.state.Selected
			spec.Sprite = sprite.Home(item.ID)
		}
		out[i] = scene.BuildCard(spec)
	}
	return out
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.debugVisible {
		return debugOverlay(a.ring, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}

	header := a.renderHeader()
	footer := a.renderFooter()
	status := a.renderStatusBar()

	bodyHeight := max(a.height-3, 1)
	orbitWidth := max(a.width-panelWidth-2, 10)

	var body string
	if len(a.state.Items) == 0 {
		body = lipgloss.Place(orbitWidth, bodyHeight, lipgloss.Center, lipgloss.Center, a.emptyMessage())
	} else {
		body = renderOrbit(a.cards(), a.hovered, a.rig.view, orbitWidth, bodyHeight)
	}
	panel := renderPanel(a.state.Selected, a.panelArt(), panelWidth-2)
	if a.state.LoadingDetail {
		panel += "\n" + a.spinner.View() + PanelMuted.Render(" loading detail")
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, body, " ", panel)
	return lipgloss.JoinVertical(lipgloss.Left, header, main, footer, status)
}

func (a App) emptyMessage() string {
	switch {
	case a.state.Loading:
		return a.spinner.View() + " loading catalog"
	case a.state.ListErr != nil:
		return ErrorStyle.Render(catalog.Message(a.state.ListErr)) + HelpStyle.Render("Press r to retry.")
	default:
		return HelpStyle.Render("Nothing to show.")
	}
}

func (a App) panelArt() string {
	d := a.state.Selected
	switch {
	case d == nil:
		return ""
	case a.sprites == nil:
		return PanelMuted.Render("[ sprites off ]")
	}
	if r, ok := a.art[d.ID]; ok {
		return spriteArt(r)
	}
	if a.artPending[d.ID] {
		return a.spinner.View() + PanelMuted.Render(" sprite")
	}
	return spriteArt(sprite.Result{ID: d.ID, State: sprite.StateNoImage})
}

func (a App) renderHeader() string {
	title := TitleStyle.Render("Pokédeck")
	page := PageStyle.Render(fmt.Sprintf("page %d/%d · %d entries",
		a.state.CurrentPage, a.state.TotalPages(), a.state.TotalCount))
	if a.state.Loading {
		page += a.spinner.View()
	}
	return title + page
}

// renderFooter shows, in priority order, the go-to prompt, the current
// notice or the last error.
func (a App) renderFooter() string {
	switch {
	case a.prompting:
		return GotoBar.Width(a.width).Render(a.gotoInput.View())
	case a.notice != nil:
		return toastStyle(a.notice.Kind).Render(a.notice.Message)
	case a.state.ListErr != nil:
		return ErrorStyle.Render("list: " + catalog.Message(a.state.ListErr))
	case a.state.DetailErr != nil:
		return ErrorStyle.Render("detail: " + catalog.Message(a.state.DetailErr))
	}
	return ""
}

func toastStyle(k notify.Kind) lipgloss.Style {
	switch k {
	case notify.KindSuccess:
		return ToastSuccess
	case notify.KindWarning:
		return ToastWarning
	default:
		return ToastError
	}
}

// renderStatusBar renders key hints.
func (a App) renderStatusBar() string {
	hint := func(k, d string) string { return StatusBarKey.Render(k) + StatusBarText.Render(":"+d) }
	parts := []string{
		hint("←/→", "hover"),
		hint("enter", "select"),
		hint("n/p", "page"),
		hint(":", "goto"),
		hint("h/l", "orbit"),
		hint("+/-", "zoom"),
		hint("r", "reload"),
		hint("?", "debug"),
		hint("q", "quit"),
	}
	return StatusBar.Width(a.width).Render(strings.Join(parts, "  "))
}

// State returns the last pager state the App saw (for testing).
func (a App) State() pager.State {
	return a.state
}

// Hovered returns the hovered card index (for testing).
func (a App) Hovered() int {
	return a.hovered
}
