// Package stepform is the form service: it serves published tenant forms
// to embedding pages, runs the form editor for operators and queues
// submitted values for delivery.
package stepform

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/G-Node/stepform/stepform/backend"
	"github.com/G-Node/stepform/stepform/db"
	"github.com/G-Node/stepform/stepform/form"
	"github.com/G-Node/stepform/stepform/web"
	"github.com/G-Node/stepform/stepform/worker"
)

// Service represents a full form service which contains a web server, a
// database for sessions and submissions, and a worker that delivers
// submissions.
type Service struct {
	web     *web.Server
	db      *db.Connection
	worker  *worker.Worker
	store   backend.Store
	log     *log.Logger
	editors *editorRegistry
	stop    chan bool
	Config  *Config
}

// NewStore returns the form store selected by the backend configuration.
func NewStore(config BackendConfig) (backend.Store, error) {
	if config.URL == "" {
		if config.Dir == "" {
			return nil, fmt.Errorf("no backend configured")
		}
		return backend.NewFS(config.Dir), nil
	}
	var creds *backend.Credentials
	if config.ClientID != "" {
		creds = &backend.Credentials{
			TokenURL:     config.TokenURL,
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       config.Scopes,
		}
	}
	return backend.NewClient(config.URL, creds)
}

// NewService creates a new Service reading forms from store and handing
// submissions to action.
func NewService(store backend.Store, action worker.DeliverAction, config Config) (*Service, error) {
	srv := new(Service)
	srv.log = log.New(os.Stderr, "", log.LstdFlags)
	srv.Config = &config
	srv.store = store
	srv.editors = newEditorRegistry()
	srv.stop = make(chan bool)

	// DB
	srv.log.Print("Initialising database")
	conn, err := db.New(config.DBPath)
	if err != nil {
		return nil, err
	}
	srv.db = conn

	// Worker
	srv.log.Print("Initialising worker")
	srv.worker = worker.New(srv.db, config.QueueLength)
	srv.SetDeliverAction(action)

	// Web server
	srv.web = web.New(config.Port)
	srv.setupWebRoutes()
	return srv, nil
}

// SetLogger sets the logger of the service and its components.
func (srv *Service) SetLogger(logger *log.Logger) {
	srv.log = logger
	srv.worker.SetLogger(logger)
	srv.web.SetLogger(logger)
	form.SetLogger(logger)
}

// Start the service (worker, session purging and web server).
func (srv *Service) Start() error {
	if srv.store == nil {
		return fmt.Errorf("nil form store is invalid")
	}
	if srv.worker.Action == nil {
		return fmt.Errorf("nil delivery action is invalid")
	}

	srv.log.Print("Starting worker")
	srv.worker.Start()

	srv.log.Print("Starting session purge")
	go srv.purgeSessions()

	srv.log.Print("Starting web service")
	srv.web.Start()
	srv.log.Printf("Web server started on %s", srv.web.Addr)
	return nil
}

// purgeSessions periodically runs purgeIdle.
func (srv *Service) purgeSessions() {
	interval := srv.Config.SessionTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			srv.purgeIdle(now)
		case <-srv.stop:
			return
		}
	}
}

// purgeIdle deletes the form sessions and drops the open editors that were
// idle since before now minus the session TTL.
func (srv *Service) purgeIdle(now time.Time) {
	before := now.Add(-srv.Config.SessionTTL)
	n, err := srv.db.PurgeFormSessions(before)
	if err != nil {
		srv.log.Printf("Error purging form sessions: %v", err)
	} else if n > 0 {
		srv.log.Printf("Purged %d abandoned form sessions", n)
	}
	if n := srv.editors.purge(before); n > 0 {
		srv.log.Printf("Dropped %d idle editors", n)
	}
}

// WaitForInterrupt blocks until the service receives an interrupt signal (SIGINT).
func (srv *Service) WaitForInterrupt() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt)
	<-sigchan
}

// Stop the service by gracefully shutting down the web service, stopping the
// worker and session purge, and closing the database connection, in that
// order.  Stop must only be called after Start.
func (srv *Service) Stop() {
	srv.log.Print("Stopping web service")
	srv.web.Stop()

	srv.log.Print("Stopping worker queue")
	srv.worker.Stop()
	srv.stop <- true

	srv.log.Print("Closing database connection")
	if err := srv.db.Close(); err != nil {
		srv.log.Printf("Error closing database: %v", err)
	}
	srv.log.Print("Service stopped")
}

// SetDeliverAction can be used to set or override the delivery action for
// the service.
func (srv *Service) SetDeliverAction(f worker.DeliverAction) {
	srv.worker.Action = f
}
