package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/altee/internal/config"
	"github.com/altee/internal/db"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouterTest(t *testing.T) (*httptest.Server, func()) {
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
	db.DB = gdb

	for _, u := range []struct {
		name string
		role string
	}{
		{"admin", db.RoleAdmin},
		{"alice", db.RoleUser},
		{"bob", db.RoleUser},
	} {
		hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		user := db.User{Username: u.name, Password: string(hashed), Role: u.role}
		if err := gdb.Create(&user).Error; err != nil {
			t.Fatalf("failed to seed user %q: %v", u.name, err)
		}
	}

	cfg := config.AppConfig{
		SessionSecret:      "router-test-secret",
		UploadDir:          t.TempDir(),
		UploadURLPath:      "/static/uploads",
		RateLimitPerSecond: 1000,
		RateLimitBurst:     1000,
	}

	srv := httptest.NewServer(SetupRouter(cfg))
	return srv, func() {
		srv.Close()
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

// loginAs 返回持有对应用户会话 Cookie 的客户端
func loginAs(t *testing.T, srv *httptest.Server, username string) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar}

	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/login", map[string]any{
		"username": username,
		"password": "secret",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login as %q failed with status %d", username, resp.StatusCode)
	}
	return client
}

func doJSON(t *testing.T, client *http.Client, method, url string, payload any) *http.Response {
	t.Helper()

	var req *http.Request
	var err error
	if payload != nil {
		body, marshalErr := json.Marshal(payload)
		if marshalErr != nil {
			t.Fatalf("failed to marshal payload: %v", marshalErr)
		}
		req, err = http.NewRequest(method, url, bytes.NewReader(body))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestCatalogAndLinkFlow(t *testing.T) {
	srv, cleanup := setupRouterTest(t)
	defer cleanup()

	admin := loginAs(t, srv, "admin")
	alice := loginAs(t, srv, "alice")
	bob := loginAs(t, srv, "bob")

	// 管理员创建首个服务，排序从 1 开始
	resp := doJSON(t, admin, http.MethodPost, srv.URL+"/api/services", map[string]any{
		"name": "Twitter",
		"slug": "twitter",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected service creation to succeed, got %d", resp.StatusCode)
	}
	var created struct {
		Service struct {
			ID        uint `json:"ID"`
			SortOrder int  `json:"sort_order"`
		} `json:"service"`
	}
	decodeBody(t, resp, &created)
	if created.Service.SortOrder != 1 {
		t.Fatalf("expected first service sort order 1, got %d", created.Service.SortOrder)
	}
	twitterID := created.Service.ID

	// 重名创建被拒绝
	resp = doJSON(t, admin, http.MethodPost, srv.URL+"/api/services", map[string]any{
		"name": "Twitter",
		"slug": "x",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected duplicate service to be rejected, got %d", resp.StatusCode)
	}

	// 普通用户无法管理目录
	resp = doJSON(t, alice, http.MethodPost, srv.URL+"/api/services", map[string]any{
		"name": "GitHub",
		"slug": "github",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected non-admin create to be forbidden, got %d", resp.StatusCode)
	}

	// alice 创建两个链接
	var firstLink, secondLink struct {
		Link struct {
			ID        uint `json:"ID"`
			SortOrder int  `json:"sort_order"`
		} `json:"link"`
	}
	resp = doJSON(t, alice, http.MethodPost, srv.URL+"/api/links", map[string]any{
		"url":        "https://twitter.com/alice",
		"service_id": twitterID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected link creation to succeed, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &firstLink)

	resp = doJSON(t, alice, http.MethodPost, srv.URL+"/api/links", map[string]any{
		"url":        "https://twitter.com/alice2",
		"service_id": twitterID,
	})
	decodeBody(t, resp, &secondLink)
	if firstLink.Link.SortOrder != 1 || secondLink.Link.SortOrder != 2 {
		t.Fatalf("expected link sort orders 1,2, got %d,%d", firstLink.Link.SortOrder, secondLink.Link.SortOrder)
	}

	// bob 无法修改 alice 的链接
	resp = doJSON(t, bob, http.MethodPut, fmt.Sprintf("%s/api/links/%d", srv.URL, firstLink.Link.ID), map[string]any{
		"url":        "https://twitter.com/hijack",
		"service_id": twitterID,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected cross-user update to be forbidden, got %d", resp.StatusCode)
	}

	// alice 重排自己的链接
	resp = doJSON(t, alice, http.MethodPut, srv.URL+"/api/links/order", map[string]any{
		"items": []map[string]any{
			{"id": secondLink.Link.ID, "sort_order": 1},
			{"id": firstLink.Link.ID, "sort_order": 2},
		},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected reorder to succeed, got %d", resp.StatusCode)
	}

	resp = doJSON(t, alice, http.MethodGet, srv.URL+"/api/links", nil)
	var listed struct {
		Links []struct {
			ID uint `json:"ID"`
		} `json:"links"`
	}
	decodeBody(t, resp, &listed)
	if len(listed.Links) != 2 || listed.Links[0].ID != secondLink.Link.ID {
		t.Fatalf("expected reordered listing, got %+v", listed.Links)
	}

	// 公开主页无需登录即可访问，且遵循排序
	anon := &http.Client{}
	resp = doJSON(t, anon, http.MethodGet, srv.URL+"/u/alice/links", nil)
	var public struct {
		Links []struct {
			URL string `json:"url"`
		} `json:"links"`
	}
	decodeBody(t, resp, &public)
	if len(public.Links) != 2 || public.Links[0].URL != "https://twitter.com/alice2" {
		t.Fatalf("expected public links in display order, got %+v", public.Links)
	}

	// 私有接口对匿名请求关闭
	resp = doJSON(t, anon, http.MethodGet, srv.URL+"/api/links", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected anonymous access to be rejected, got %d", resp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, cleanup := setupRouterTest(t)
	defer cleanup()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	resp := doJSON(t, client, http.MethodPost, srv.URL+"/api/login", map[string]any{
		"username": "alice",
		"password": "wrong",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected bad credentials to be rejected, got %d", resp.StatusCode)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv, cleanup := setupRouterTest(t)
	defer cleanup()

	alice := loginAs(t, srv, "alice")

	resp := doJSON(t, alice, http.MethodPost, srv.URL+"/api/logout", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected logout to succeed, got %d", resp.StatusCode)
	}

	resp = doJSON(t, alice, http.MethodGet, srv.URL+"/api/links", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected session to be invalidated, got %d", resp.StatusCode)
	}
}
