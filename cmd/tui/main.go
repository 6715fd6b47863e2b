package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/rentbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/rentbook/internal/config"
	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/database"
	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/importer"
	"github.com/MrJamesThe3rd/rentbook/internal/inflation"
	inflationStore "github.com/MrJamesThe3rd/rentbook/internal/inflation/store"
	"github.com/MrJamesThe3rd/rentbook/internal/logging"
	"github.com/MrJamesThe3rd/rentbook/internal/owner"
	ownerStore "github.com/MrJamesThe3rd/rentbook/internal/owner/store"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
	propertyStore "github.com/MrJamesThe3rd/rentbook/internal/property/store"
)

type model struct {
	propertyService  *property.Service
	inflationService *inflation.Service
	ownerService     *owner.Service
	dashboardService *dashboard.Service
	importService    *importer.Service
	exportService    *export.Service

	appName     string
	currentView View

	propertiesView view.PropertiesModel
	reviewsView    view.ReviewsModel
	inflationView  view.InflationModel
	ownersView     view.OwnersModel
	dashboardView  view.DashboardModel
	exportView     view.ExportModel
}

type View int

const (
	ViewMenu       View = 0
	ViewProperties View = 1
	ViewReviews    View = 2
	ViewInflation  View = 3
	ViewOwners     View = 4
	ViewDashboard  View = 5
	ViewExport     View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs go to a file when one is configured.
	logOut := os.Stderr
	if path := os.Getenv("RENTBOOK_TUI_LOG"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			logOut = f
		}
	}

	logging.Setup(logOut, cfg.Log.Level, cfg.Log.Format)

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	infSvc := inflation.NewService(inflationStore.New(db))
	propSvc := property.NewService(propertyStore.New(db), infSvc)
	ownSvc := owner.NewService(ownerStore.New(db))
	dashSvc := dashboard.NewService(propSvc, ownSvc)
	impSvc := importer.NewService()
	expSvc := export.NewService(propSvc)

	return model{
		propertyService:  propSvc,
		inflationService: infSvc,
		ownerService:     ownSvc,
		dashboardService: dashSvc,
		importService:    impSvc,
		exportService:    expSvc,
		appName:          cfg.App.Name,
		currentView:      ViewMenu,
		propertiesView:   view.NewPropertiesModel(propSvc),
		reviewsView:      view.NewReviewsModel(propSvc),
		inflationView:    view.NewInflationModel(infSvc, impSvc),
		ownersView:       view.NewOwnersModel(ownSvc, dashSvc),
		dashboardView:    view.NewDashboardModel(dashSvc),
		exportView:       view.NewExportModel(expSvc, dashSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewProperties
				m.propertiesView = view.NewPropertiesModel(m.propertyService)

				return m, m.propertiesView.Init()
			case "2":
				m.currentView = ViewReviews
				m.reviewsView = view.NewReviewsModel(m.propertyService)

				return m, m.reviewsView.Init()
			case "3":
				m.currentView = ViewInflation
				m.inflationView = view.NewInflationModel(m.inflationService, m.importService)

				return m, m.inflationView.Init()
			case "4":
				m.currentView = ViewOwners
				m.ownersView = view.NewOwnersModel(m.ownerService, m.dashboardService)

				return m, m.ownersView.Init()
			case "5":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.dashboardService)

				return m, m.dashboardView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.dashboardService)

				return m, m.exportView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewProperties:
		var newModel tea.Model
		newModel, cmd = m.propertiesView.Update(msg)
		m.propertiesView = newModel.(view.PropertiesModel)
	case ViewReviews:
		var newModel tea.Model
		newModel, cmd = m.reviewsView.Update(msg)
		m.reviewsView = newModel.(view.ReviewsModel)
	case ViewInflation:
		var newModel tea.Model
		newModel, cmd = m.inflationView.Update(msg)
		m.inflationView = newModel.(view.InflationModel)
	case ViewOwners:
		var newModel tea.Model
		newModel, cmd = m.ownersView.Update(msg)
		m.ownersView = newModel.(view.OwnersModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Properties\n" +
				"2. Rent Reviews\n" +
				"3. Inflation\n" +
				"4. Owners\n" +
				"5. Dashboard\n" +
				"6. Export\n\n" +
				"q. Quit",
		)
	case ViewProperties:
		return m.propertiesView.View()
	case ViewReviews:
		return m.reviewsView.View()
	case ViewInflation:
		return m.inflationView.View()
	case ViewOwners:
		return m.ownersView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
