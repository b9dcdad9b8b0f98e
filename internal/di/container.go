// Package di provides dependency injection configuration for the Stackroom server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/stackroomapp/stackroom-server/internal/config"
	"github.com/stackroomapp/stackroom-server/internal/di/providers"
	"github.com/stackroomapp/stackroom-server/internal/logger"
	"github.com/stackroomapp/stackroom-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideAuthorService)
	do.Provide(injector, providers.ProvideCategoryService)
	do.Provide(injector, providers.ProvideMemberService)
	do.Provide(injector, providers.ProvideLoanService)
	do.Provide(injector, providers.ProvideReservationService)
	do.Provide(injector, providers.ProvideCatalogService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once every provider has
// been invoked, so startup failures surface before the server accepts
// traffic.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.AuthorService](injector)
	_ = do.MustInvoke[*service.CategoryService](injector)
	_ = do.MustInvoke[*service.MemberService](injector)
	_ = do.MustInvoke[*service.LoanService](injector)
	_ = do.MustInvoke[*service.ReservationService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
