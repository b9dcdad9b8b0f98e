package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/stackroomapp/stackroom-server/internal/api"
	"github.com/stackroomapp/stackroom-server/internal/config"
	"github.com/stackroomapp/stackroom-server/internal/logger"
	"github.com/stackroomapp/stackroom-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Books:        do.MustInvoke[*service.BookService](i),
		Authors:      do.MustInvoke[*service.AuthorService](i),
		Categories:   do.MustInvoke[*service.CategoryService](i),
		Members:      do.MustInvoke[*service.MemberService](i),
		Loans:        do.MustInvoke[*service.LoanService](i),
		Reservations: do.MustInvoke[*service.ReservationService](i),
		Catalog:      do.MustInvoke[*service.CatalogService](i),
	}

	apiServer := api.NewServer(storeHandle.Store, services, log.Logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", server.Addr)

	return &HTTPServerHandle{Server: server}, nil
}
