package service

import (
	"errors"
	"testing"

	"github.com/altee/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Service{}, &db.Icon{}, &db.UserLink{}, &db.Color{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func mustCreateService(t *testing.T, svc *CatalogService, name, slug string) *db.Service {
	t.Helper()

	created, err := svc.Create(ServiceInput{
		Name:              name,
		Slug:              slug,
		AllowOriginalIcon: true,
		IsActive:          true,
	})
	if err != nil {
		t.Fatalf("failed to create service %q: %v", name, err)
	}
	return created
}

func TestCreateServiceAssignsNextSortOrder(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)

	first := mustCreateService(t, svc, "Twitter", "twitter")
	if first.SortOrder != 1 {
		t.Fatalf("expected first sort order 1, got %d", first.SortOrder)
	}

	second := mustCreateService(t, svc, "GitHub", "github")
	if second.SortOrder != 2 {
		t.Fatalf("expected second sort order 2, got %d", second.SortOrder)
	}
}

func TestCreateServiceDuplicateNameOrSlug(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)
	mustCreateService(t, svc, "Twitter", "twitter")

	if _, err := svc.Create(ServiceInput{Name: "Twitter", Slug: "x", IsActive: true}); !errors.Is(err, ErrServiceDuplicate) {
		t.Fatalf("expected duplicate error for name, got %v", err)
	}
	if _, err := svc.Create(ServiceInput{Name: "X", Slug: "twitter", IsActive: true}); !errors.Is(err, ErrServiceDuplicate) {
		t.Fatalf("expected duplicate error for slug, got %v", err)
	}

	var count int64
	gdb.Model(&db.Service{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected no partial rows after duplicate failures, found %d services", count)
	}
}

func TestListServicesFilters(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)
	mustCreateService(t, svc, "Twitter", "twitter")
	github := mustCreateService(t, svc, "GitHub", "github")

	inactive := false
	if _, err := svc.Update(github.ID, ServicePatch{IsActive: &inactive}); err != nil {
		t.Fatalf("failed to deactivate service: %v", err)
	}

	activeOnly := true
	services, err := svc.List(ServiceFilter{IsActive: &activeOnly})
	if err != nil {
		t.Fatalf("failed to list services: %v", err)
	}
	if len(services) != 1 || services[0].Name != "Twitter" {
		t.Fatalf("expected only active Twitter, got %+v", services)
	}

	services, err = svc.List(ServiceFilter{Search: "git"})
	if err != nil {
		t.Fatalf("failed to search services: %v", err)
	}
	if len(services) != 1 || services[0].Name != "GitHub" {
		t.Fatalf("expected search to match GitHub, got %+v", services)
	}

	services, err = svc.List(ServiceFilter{})
	if err != nil {
		t.Fatalf("failed to list all services: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected unfiltered list to return 2 services, got %d", len(services))
	}
}

func TestUpdateServiceNotFound(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)

	name := "Ghost"
	if _, err := svc.Update(999, ServicePatch{Name: &name}); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateServiceDuplicateExcludesSelf(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)
	twitter := mustCreateService(t, svc, "Twitter", "twitter")
	mustCreateService(t, svc, "GitHub", "github")

	// 改回自己的名字不应触发唯一性冲突
	name := "Twitter"
	if _, err := svc.Update(twitter.ID, ServicePatch{Name: &name}); err != nil {
		t.Fatalf("expected self-update to succeed, got %v", err)
	}

	conflict := "GitHub"
	if _, err := svc.Update(twitter.ID, ServicePatch{Name: &conflict}); !errors.Is(err, ErrServiceDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestDeleteServiceBlockedWhenReferenced(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)
	twitter := mustCreateService(t, svc, "Twitter", "twitter")

	link := db.UserLink{UserID: 1, URL: "https://twitter.com/a", ServiceID: twitter.ID, IsActive: true}
	if err := gdb.Create(&link).Error; err != nil {
		t.Fatalf("failed to seed link: %v", err)
	}

	if err := svc.Delete(twitter.ID); !errors.Is(err, ErrServiceInUse) {
		t.Fatalf("expected in-use error, got %v", err)
	}

	if err := gdb.Unscoped().Delete(&link).Error; err != nil {
		t.Fatalf("failed to remove link: %v", err)
	}

	icon := db.Icon{Name: "bird", FilePath: "/static/uploads/bird.png", Style: db.IconStyleFilled, ColorScheme: db.IconColorOriginal, ServiceID: twitter.ID, IsActive: true}
	if err := gdb.Create(&icon).Error; err != nil {
		t.Fatalf("failed to seed icon: %v", err)
	}

	if err := svc.Delete(twitter.ID); !errors.Is(err, ErrServiceInUse) {
		t.Fatalf("expected in-use error for icon reference, got %v", err)
	}
}

func TestDeleteServiceSuccess(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)
	twitter := mustCreateService(t, svc, "Twitter", "twitter")

	if err := svc.Delete(twitter.ID); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}

	var count int64
	gdb.Unscoped().Model(&db.Service{}).Where("id = ?", twitter.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected service row to be gone, still found %d records", count)
	}
}

func TestReorderServicesAppliesExplicitValues(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)
	twitter := mustCreateService(t, svc, "Twitter", "twitter")
	github := mustCreateService(t, svc, "GitHub", "github")

	err := svc.Reorder([]OrderItem{
		{ID: github.ID, SortOrder: 0},
		{ID: twitter.ID, SortOrder: 1},
	})
	if err != nil {
		t.Fatalf("failed to reorder services: %v", err)
	}

	services, err := svc.List(ServiceFilter{})
	if err != nil {
		t.Fatalf("failed to list services: %v", err)
	}
	if services[0].Name != "GitHub" || services[1].Name != "Twitter" {
		t.Fatalf("unexpected order after reorder: %+v", []string{services[0].Name, services[1].Name})
	}
}

func TestReorderServicesEmptyListRejected(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)

	if err := svc.Reorder(nil); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected empty order error, got %v", err)
	}
}

func TestReorderServicesRollsBackOnUnknownID(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)
	twitter := mustCreateService(t, svc, "Twitter", "twitter")

	err := svc.Reorder([]OrderItem{
		{ID: twitter.ID, SortOrder: 5},
		{ID: 999, SortOrder: 6},
	})
	if !errors.Is(err, ErrOrderTargetMissing) {
		t.Fatalf("expected missing target error, got %v", err)
	}

	var reloaded db.Service
	if err := gdb.First(&reloaded, twitter.ID).Error; err != nil {
		t.Fatalf("failed to reload service: %v", err)
	}
	if reloaded.SortOrder != 1 {
		t.Fatalf("expected rollback to keep sort order 1, got %d", reloaded.SortOrder)
	}
}

func TestReorderServicesLastWriteWinsOnDuplicateEntries(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCatalogService(gdb)
	twitter := mustCreateService(t, svc, "Twitter", "twitter")

	err := svc.Reorder([]OrderItem{
		{ID: twitter.ID, SortOrder: 3},
		{ID: twitter.ID, SortOrder: 7},
	})
	if err != nil {
		t.Fatalf("failed to reorder with duplicate entries: %v", err)
	}

	var reloaded db.Service
	if err := gdb.First(&reloaded, twitter.ID).Error; err != nil {
		t.Fatalf("failed to reload service: %v", err)
	}
	if reloaded.SortOrder != 7 {
		t.Fatalf("expected last write to win, got %d", reloaded.SortOrder)
	}
}
