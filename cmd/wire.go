package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/openclaw/sentinel/internal/adapters/gateway"
	"github.com/openclaw/sentinel/internal/adapters/journal"
	"github.com/openclaw/sentinel/internal/adapters/pidlock"
	"github.com/openclaw/sentinel/internal/adapters/scan"
	"github.com/openclaw/sentinel/internal/adapters/state"
	"github.com/openclaw/sentinel/internal/adapters/vault"
	"github.com/openclaw/sentinel/internal/application"
	"github.com/openclaw/sentinel/internal/config"
	"github.com/openclaw/sentinel/internal/ports"
)

// Pause between the truncate and the gateway restart request, giving
// the gateway's writer a moment to notice the reset file.
const restartCooldown = 3 * time.Second

type app struct {
	cfg     config.Config
	logger  *log.Logger
	scanner *scan.Scanner
	journal *journal.Journal
	lock    *pidlock.Lock
	state   *state.Store
	clock   ports.Clock
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sentinel",
	})

	return &app{
		cfg:     cfg,
		logger:  logger,
		scanner: scan.New(cfg.SessionsDir, logger),
		journal: journal.New(cfg.JournalDir, logger),
		lock:    pidlock.New(cfg.PIDDir()),
		state:   state.New(cfg.PIDDir()),
		clock:   ports.SystemClock{},
	}, nil
}

// newMonitor builds the full detection pipeline with interventions
// enabled per configuration.
func (a *app) newMonitor() *application.MonitorService {
	vaultStore := vault.New(a.cfg.ArchiveRoot, a.clock)
	restarter := gateway.New(a.cfg.RestartCommand, restartCooldown, a.logger)
	executor := application.NewExecutor(vaultStore, a.journal, restarter, a.clock, a.logger)

	return application.NewMonitorService(
		a.scanner,
		executor,
		a.journal,
		a.clock,
		a.logger,
		a.cfg.Thresholds,
		a.cfg.AutoIntervention,
	)
}

func (a *app) newStatusService() *application.StatusService {
	return application.NewStatusService(a.newMonitor(), a.lock, a.state, a.journal, a.clock)
}
