package main

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"autoaccel/cmd/autoaccel/config"
	"autoaccel/cmd/autoaccel/ui"
	"autoaccel/internal/auth"
	"autoaccel/internal/generation"
)

type page int

const (
	pageInitializing page = iota
	pageLogin
	pageSelect
	pageResponse
	pageSettings
)

// authStateMsg carries one auth notification into the event loop. A nil
// identity means signed out.
type authStateMsg struct {
	identity *auth.Identity
}

// signInDoneMsg reports the outcome of an interactive sign-in attempt. A
// successful sign-in also arrives as an authStateMsg through the
// subscription, which is what actually switches pages.
type signInDoneMsg struct {
	err error
}

// App is the top-level Bubble Tea model. It gates everything behind the
// first auth notification: until that arrives no page is routed and only
// the initializing spinner is shown.
type App struct {
	cfg    config.Config
	mgr    *auth.Manager
	gen    generation.Generator
	logger *zap.Logger

	authCh chan *auth.Identity

	page      page
	themeName string
	styles    ui.Styles

	login    ui.LoginPageModel
	sel      ui.SelectPageModel
	response ui.ResponsePageModel
	settings ui.SettingsPageModel

	spinner spinner.Model
	width   int
	height  int
}

// NewApp wires the shell. The auth subscription is registered here so the
// current state (including the immediate first notification) is already
// queued when the program starts.
func NewApp(cfg config.Config, mgr *auth.Manager, gen generation.Generator, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}

	styles := ui.NewStyles(ui.ResolveThemeName(cfg.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	a := &App{
		cfg:       cfg,
		mgr:       mgr,
		gen:       gen,
		logger:    logger,
		authCh:    make(chan *auth.Identity, 8),
		page:      pageInitializing,
		themeName: cfg.Theme,
		styles:    styles,
		login:     ui.NewLoginPage(styles),
		sel:       ui.NewSelectPage(gen, styles, logger),
		spinner:   sp,
	}
	mgr.Subscribe(func(id *auth.Identity) {
		a.authCh <- id
	})
	return a
}

// Init starts the spinner and the auth listener.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.waitAuth())
}

// waitAuth blocks on the next auth notification.
func (a *App) waitAuth() tea.Cmd {
	return func() tea.Msg {
		return authStateMsg{identity: <-a.authCh}
	}
}

func (a *App) signIn() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		return signInDoneMsg{err: a.mgr.SignIn(ctx)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login.SetSize(msg.Width, msg.Height)
		a.sel.SetSize(msg.Width, msg.Height)
		a.response.SetSize(msg.Width, msg.Height)
		a.settings.SetSize(msg.Width, msg.Height)
		return a, nil

	case authStateMsg:
		return a.routeAuth(msg.identity)

	case signInDoneMsg:
		a.login.SetSigningIn(false)
		if msg.err != nil {
			a.logger.Warn("sign-in failed", zap.Error(msg.err))
			a.login.SetError("Sign-in failed. Please try again.")
		}
		return a, nil

	case ui.SignInRequestedMsg:
		a.login.SetSigningIn(true)
		return a, a.signIn()

	case ui.SignOutRequestedMsg:
		if err := a.mgr.SignOut(); err != nil {
			a.logger.Warn("sign-out failed", zap.Error(err))
		}
		return a, nil

	case ui.GenerationResultMsg:
		// Always lands on the select page, even if the user wandered off
		// to settings while the request was in flight.
		var cmd tea.Cmd
		a.sel, cmd = a.sel.Update(msg)
		return a, cmd

	case ui.ShowResponseMsg:
		a.response = ui.NewResponsePage(msg.Raw, a.styles, a.logger)
		a.response.SetSize(a.width, a.height)
		a.page = pageResponse
		return a, nil

	case ui.ThemeChangedMsg:
		return a, a.applyTheme(msg.Name)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			if a.page == pageResponse || a.page == pageSettings {
				a.page = pageSelect
				return a, nil
			}
		case "ctrl+s":
			if a.page == pageSelect {
				a.settings = ui.NewSettingsPage(a.mgr.Current(), a.themeName, a.styles)
				a.settings.SetSize(a.width, a.height)
				a.page = pageSettings
				return a, nil
			}
		}

	case spinner.TickMsg:
		if a.page == pageInitializing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
	}

	return a.routeMsg(msg)
}

// routeAuth replaces the current page based on the new auth state. It also
// re-arms the listener for the next notification.
func (a *App) routeAuth(id *auth.Identity) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{a.waitAuth()}
	if id == nil {
		a.login = ui.NewLoginPage(a.styles)
		a.login.SetSize(a.width, a.height)
		a.page = pageLogin
		cmds = append(cmds, a.spinner.Tick)
	} else {
		if a.page != pageSelect && a.page != pageResponse && a.page != pageSettings {
			a.page = pageSelect
		}
		a.settings.SetIdentity(id)
	}
	return a, tea.Batch(cmds...)
}

// applyTheme persists the choice and restyles every page in place.
func (a *App) applyTheme(name string) tea.Cmd {
	a.themeName = name
	a.cfg.Theme = name
	if err := config.Save(a.cfg); err != nil {
		a.logger.Warn("failed to save config", zap.Error(err))
	}
	a.restyle()
	return nil
}

func (a *App) restyle() {
	a.styles = ui.NewStyles(ui.ResolveThemeName(a.themeName))
	a.spinner.Style = a.styles.Spinner
	a.login.SetStyles(a.styles)
	a.sel.SetStyles(a.styles)
	a.response.SetStyles(a.styles)
	a.settings.SetStyles(a.styles)
}

// reloadConfig is invoked by the file watcher when the config changes on
// disk, so a theme edited outside the app takes effect live.
func (a *App) reloadConfig(cfg config.Config) tea.Msg {
	return ui.ThemeChangedMsg{Name: cfg.Theme}
}

func (a *App) routeMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.page {
	case pageLogin:
		a.login, cmd = a.login.Update(msg)
	case pageSelect:
		a.sel, cmd = a.sel.Update(msg)
	case pageResponse:
		a.response, cmd = a.response.Update(msg)
	case pageSettings:
		a.settings, cmd = a.settings.Update(msg)
	}
	return a, cmd
}

func (a *App) View() string {
	switch a.page {
	case pageInitializing:
		body := a.spinner.View() + " " + a.styles.Muted.Render("Starting up...")
		if a.width == 0 || a.height == 0 {
			return body
		}
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
	case pageLogin:
		return a.login.View()
	case pageSelect:
		return a.sel.View()
	case pageResponse:
		return a.response.View()
	case pageSettings:
		return a.settings.View()
	}
	return ""
}
