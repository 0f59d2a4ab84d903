package app

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/protoweb/protoweb/internal/config"
	"github.com/protoweb/protoweb/internal/core"
	"github.com/protoweb/protoweb/internal/dispatcher"
	"github.com/protoweb/protoweb/internal/eventbus"
	"github.com/protoweb/protoweb/internal/models"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.BuildService
	model      *AppModel
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
}

func NewApplication() (*Application, error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Create event bus
	eb := eventbus.NewEventBus()

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb)

	// Initialize build service (always create, handles invalid config internally)
	buildService, err := core.NewBuildService(cfg, eb)
	if err != nil {
		log.Printf("Failed to initialize build service: %v", err)
		return nil, err
	}

	// Create app model
	model := &AppModel{
		appModel:   createInitialAppModel(buildService),
		dispatcher: disp,
	}

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		service:    buildService,
		model:      model,
	}, nil
}

func (app *Application) Start() error {
	// Start background services
	app.service.Start()

	// Run UI
	p := tea.NewProgram(app.model)
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
}

func createInitialAppModel(buildService *core.BuildService) models.AppModel {
	// No initial messages in UI - they come from core as single source of truth
	return models.AppModel{
		Messages:     make([]models.Message, 0),
		Status:       "Ready",
		Loading:      false,
		ServiceReady: buildService.IsReady(),
	}
}
