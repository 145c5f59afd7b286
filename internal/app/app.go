// Package app wires configuration, directory, renderer, mail pipeline and
// handlers onto an httpcore.Server.
package app

import (
	"fmt"

	"github.com/wondertwin-ai/videoinvite/internal/api"
	"github.com/wondertwin-ai/videoinvite/internal/config"
	"github.com/wondertwin-ai/videoinvite/internal/directory"
	"github.com/wondertwin-ai/videoinvite/internal/httpcore"
	"github.com/wondertwin-ai/videoinvite/internal/mail"
	"github.com/wondertwin-ai/videoinvite/internal/metrics"
	"github.com/wondertwin-ai/videoinvite/internal/page"
	"github.com/wondertwin-ai/videoinvite/internal/respond"
)

// App is a fully wired site.
type App struct {
	Server     *httpcore.Server
	Directory  *directory.Directory
	Dispatcher *mail.Dispatcher
	Metrics    *metrics.Metrics
	// Outbox is non-nil only for the memory transport.
	Outbox *mail.MemoryTransport
}

// Build mounts every route on srv and starts the mail dispatcher. The
// dispatcher is drained when srv shuts down.
func Build(srv *httpcore.Server, cfg *config.Config) (*App, error) {
	m := metrics.New()
	dir := directory.FromConfig(cfg)

	pages, err := page.New(cfg.VideoRoot, m)
	if err != nil {
		return nil, fmt.Errorf("loading page templates: %w", err)
	}
	composer, err := mail.NewComposer(mail.SettingsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("configuring mail composer: %w", err)
	}
	transport, err := mail.NewTransport(cfg.Transport, srv.Logger)
	if err != nil {
		return nil, fmt.Errorf("configuring mail transport: %w", err)
	}
	outbox, _ := transport.(*mail.MemoryTransport)

	dispatcher := mail.NewDispatcher(transport, cfg.Transport.QueueSize, srv.Logger, m)
	srv.OnShutdown(dispatcher.Close)

	responses := respond.New(dir, composer, dispatcher, srv.Logger, m, respond.Options{
		RejectUnknown: cfg.RejectUnknown,
	})

	srv.Router.Use(httpcore.Static(cfg.PublicDir))
	api.NewHandler(api.Deps{
		Directory:  dir,
		Pages:      pages,
		Responses:  responses,
		Outbox:     outbox,
		Metrics:    m,
		Middleware: srv.Middleware(),
		Logger:     srv.Logger,
		Dev:        srv.Config.IsDevelopment(),
		Admin:      cfg.Admin,
	}).Routes(srv.Router)

	return &App{
		Server:     srv,
		Directory:  dir,
		Dispatcher: dispatcher,
		Metrics:    m,
		Outbox:     outbox,
	}, nil
}
