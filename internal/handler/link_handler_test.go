package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/altee/internal/db"
	"github.com/gin-gonic/gin"
)

func seedLink(t *testing.T, api *API, userID, serviceID uint, iconID *uint, url string) *db.UserLink {
	t.Helper()

	link := db.UserLink{UserID: userID, URL: url, ServiceID: serviceID, IconID: iconID, SortOrder: 1, IsActive: true}
	if err := api.db.Create(&link).Error; err != nil {
		t.Fatalf("failed to seed link: %v", err)
	}
	return &link
}

func seedIcon(t *testing.T, api *API, serviceID uint, name string) *db.Icon {
	t.Helper()

	icon := db.Icon{
		Name:        name,
		FilePath:    "/static/uploads/" + name + ".png",
		Style:       db.IconStyleFilled,
		ColorScheme: db.IconColorOriginal,
		IsActive:    true,
		SortOrder:   1,
		ServiceID:   serviceID,
	}
	if err := api.db.Create(&icon).Error; err != nil {
		t.Fatalf("failed to seed icon: %v", err)
	}
	return &icon
}

func TestCreateLinkRequiresAuthentication(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := jsonContext(t, http.MethodPost, "/api/links", map[string]any{
		"url":        "https://twitter.com/alice",
		"service_id": 1,
	})

	api.CreateLink(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestUpdateLinkEmptyIconIDPersistsNull(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	svc := seedService(t, api, "Twitter", "twitter", true)
	icon := seedIcon(t, api, svc.ID, "bird-filled")
	link := seedLink(t, api, 2, svc.ID, &icon.ID, "https://twitter.com/alice")

	c, w := jsonContext(t, http.MethodPut, "/api/links/"+strconv.Itoa(int(link.ID)), map[string]any{
		"url":        "https://twitter.com/alice",
		"service_id": svc.ID,
		"icon_id":    "",
		"is_active":  true,
	})
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(link.ID))}}
	asUser(c, 2)

	api.UpdateLink(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded db.UserLink
	if err := api.db.First(&reloaded, link.ID).Error; err != nil {
		t.Fatalf("failed to reload link: %v", err)
	}
	if reloaded.IconID != nil {
		t.Fatalf("expected icon_id persisted as null, got %v", *reloaded.IconID)
	}
}

func TestUpdateLinkNotOwnerForbidden(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	svc := seedService(t, api, "Twitter", "twitter", true)
	link := seedLink(t, api, 2, svc.ID, nil, "https://twitter.com/alice")

	c, w := jsonContext(t, http.MethodPut, "/api/links/"+strconv.Itoa(int(link.ID)), map[string]any{
		"url":        "https://twitter.com/hijack",
		"service_id": svc.ID,
	})
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(link.ID))}}
	asUser(c, 3)

	api.UpdateLink(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded db.UserLink
	if err := api.db.First(&reloaded, link.ID).Error; err != nil {
		t.Fatalf("failed to reload link: %v", err)
	}
	if reloaded.URL != "https://twitter.com/alice" {
		t.Fatalf("expected link untouched, got %q", reloaded.URL)
	}
}

func TestCreateLinkUnknownServiceRejected(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := jsonContext(t, http.MethodPost, "/api/links", map[string]any{
		"url":        "https://twitter.com/alice",
		"service_id": 999,
	})
	asUser(c, 2)

	api.CreateLink(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestReorderLinksEmptyListRejectedAtBoundary(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := jsonContext(t, http.MethodPut, "/api/links/order", map[string]any{"items": []any{}})
	asUser(c, 2)

	api.ReorderLinks(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty reorder, got %d", w.Code)
	}
}

func TestGetPublicLinksUnknownUser(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	c, w := jsonContext(t, http.MethodGet, "/u/ghost/links", nil)
	c.Params = gin.Params{gin.Param{Key: "username", Value: "ghost"}}

	api.GetPublicLinks(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestGetPublicLinksOrdered(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	alice := db.User{Username: "alice", Password: "hashed", Role: db.RoleUser}
	if err := api.db.Create(&alice).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	svc := seedService(t, api, "Twitter", "twitter", true)

	second := seedLink(t, api, alice.ID, svc.ID, nil, "https://twitter.com/second")
	second.SortOrder = 2
	if err := api.db.Save(second).Error; err != nil {
		t.Fatalf("failed to adjust sort order: %v", err)
	}
	seedLink(t, api, alice.ID, svc.ID, nil, "https://twitter.com/first")

	c, w := jsonContext(t, http.MethodGet, "/u/alice/links", nil)
	c.Params = gin.Params{gin.Param{Key: "username", Value: "alice"}}

	api.GetPublicLinks(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Links []struct {
			URL string `json:"url"`
		} `json:"links"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Links) != 2 || resp.Links[0].URL != "https://twitter.com/first" {
		t.Fatalf("expected links ordered by sort order, got %s", w.Body.String())
	}
}
