package handler

import (
	"github.com/altee/internal/ratelimit"
	"github.com/altee/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db      *gorm.DB
	catalog *service.CatalogService
	icons   *service.IconService
	links   *service.UserLinkService
	colors  *service.ColorService
	storage *service.StorageService
	limiter *ratelimit.Limiter
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, storage *service.StorageService, limiter *ratelimit.Limiter) *API {
	return &API{
		db:      db,
		catalog: service.NewCatalogService(db),
		icons:   service.NewIconService(db),
		links:   service.NewUserLinkService(db),
		colors:  service.NewColorService(db),
		storage: storage,
		limiter: limiter,
	}
}
