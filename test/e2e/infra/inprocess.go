package infra

import (
	"context"
	"fmt"
	"net/http/httptest"

	"github.com/kubev2v/jobqueue/internal/app"
	"github.com/kubev2v/jobqueue/internal/config"
)

// InProcessInfraManager runs the application in the test process, behind an
// httptest server, with an in-memory history store.
type InProcessInfraManager struct {
	cfg *config.Configuration
	app *app.App
	srv *httptest.Server
}

func NewInProcessInfraManager(mutators ...func(*config.Configuration)) (*InProcessInfraManager, error) {
	cfg, err := config.NewConfigurationWithDefaults()
	if err != nil {
		return nil, err
	}
	cfg.Server.ServerMode = "prod"
	cfg.Queue.Permits = 1
	cfg.Queue.DispatcherRunsTasks = false
	for _, m := range mutators {
		m(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &InProcessInfraManager{cfg: cfg}, nil
}

func (m *InProcessInfraManager) StartService() (string, error) {
	if m.srv != nil {
		return "", fmt.Errorf("service already started")
	}

	a, err := app.New(context.Background(), m.cfg)
	if err != nil {
		return "", err
	}
	m.app = a
	m.srv = httptest.NewServer(a.Handler())
	return m.srv.URL, nil
}

func (m *InProcessInfraManager) StopService() error {
	if m.srv == nil {
		return nil
	}
	m.srv.Close()
	m.app.Close(context.Background())
	m.srv, m.app = nil, nil
	return nil
}

func (m *InProcessInfraManager) SinglePermit() bool {
	return m.cfg.Queue.Permits == 1 && !m.cfg.Queue.DispatcherRunsTasks
}
