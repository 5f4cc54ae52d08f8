package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"projectgreen_backend/internal/controller"
	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/service"
	"projectgreen_backend/internal/testutil"
	"projectgreen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// newTestRouter wires the training routes the way the app does, with the
// auth middleware replaced by a stub that injects the given claims.
func newTestRouter(store *testutil.FakeStore, claims *util.Claims) *gin.Engine {
	gin.SetMode(gin.TestMode)

	leaderboard := service.NewLeaderboardService(store, nil)
	training := service.NewTrainingService(store, leaderboard)
	c := controller.NewTrainingController(training, leaderboard)

	router := gin.New()
	api := router.Group("/api")
	api.Use(func(ctx *gin.Context) {
		if claims != nil {
			ctx.Set("user", claims)
		}
		ctx.Next()
	})
	api.GET("/training/modules", c.GetModules)
	api.GET("/training/modules/:id", c.GetModule)
	api.GET("/training/modules/:id/progress", c.GetModuleProgress)
	api.POST("/training/progress", c.RecordProgress)
	api.GET("/training/user/progress", c.GetUserProgress)
	api.GET("/training/leaderboard", c.GetLeaderboard)
	api.GET("/training/my-rank", c.GetMyRank)
	return router
}

func seedCitizenStore() *testutil.FakeStore {
	store := testutil.NewFakeStore()
	store.AddModule("m1", "Waste Segregation Basics", model.Citizen)
	store.AddItem("f1", model.KindFlashcard, "m1")
	store.AddItem("v1", model.KindVideo, "m1")
	store.AddUser(1, "Asha", model.Citizen)
	return store
}

func citizenClaims() *util.Claims {
	return &util.Claims{UserID: 1, Role: model.Citizen, Email: "asha@example.com"}
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp util.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func TestRecordProgressEndpoint(t *testing.T) {
	store := seedCitizenStore()
	router := newTestRouter(store, citizenClaims())

	body := `{"moduleId":"m1","type":"FLASHCARD","itemId":"f1","status":"MASTERED","xp":10}`
	w, resp := doJSON(t, router, http.MethodPost, "/api/training/progress", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T", resp.Data)
	}
	item, _ := data["itemProgress"].(map[string]interface{})
	if item["completed"] != true {
		t.Errorf("itemProgress.completed = %v", item["completed"])
	}
	module, _ := data["moduleProgress"].(map[string]interface{})
	if module["completed"] != false {
		t.Errorf("moduleProgress.completed = %v, video still outstanding", module["completed"])
	}
	if module["xpEarned"] != float64(10) {
		t.Errorf("moduleProgress.xpEarned = %v, want 10", module["xpEarned"])
	}
}

func TestRecordProgressErrors(t *testing.T) {
	store := seedCitizenStore()
	router := newTestRouter(store, citizenClaims())

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"missing fields", `{"moduleId":"m1"}`, http.StatusBadRequest},
		{"unknown item", `{"moduleId":"m1","type":"VIDEO","itemId":"ghost","status":"COMPLETED"}`, http.StatusNotFound},
		{"kind mismatch", `{"moduleId":"m1","type":"QUIZ","itemId":"v1","status":"COMPLETED"}`, http.StatusBadRequest},
		{"negative xp", `{"moduleId":"m1","type":"VIDEO","itemId":"v1","status":"COMPLETED","xp":-1}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := doJSON(t, router, http.MethodPost, "/api/training/progress", tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d, body = %s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestRecordProgressRequiresAuth(t *testing.T) {
	router := newTestRouter(seedCitizenStore(), nil)
	w, _ := doJSON(t, router, http.MethodPost, "/api/training/progress", `{}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestGetModulesDefaultsToCallerRole(t *testing.T) {
	store := seedCitizenStore()
	store.AddModule("w1", "Route Safety", model.Worker)
	router := newTestRouter(store, citizenClaims())

	w, resp := doJSON(t, router, http.MethodGet, "/api/training/modules", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	modules, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("data = %T", resp.Data)
	}
	if len(modules) != 1 {
		t.Errorf("modules = %d, want 1 citizen module", len(modules))
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/training/modules?role=MANAGER", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad role status = %d, want 400", w.Code)
	}
}

func TestLeaderboardAndMyRankEndpoints(t *testing.T) {
	store := seedCitizenStore()
	store.AddUser(2, "Binod", model.Citizen).XP = 500
	router := newTestRouter(store, citizenClaims())

	body := `{"moduleId":"m1","type":"FLASHCARD","itemId":"f1","status":"MASTERED","xp":10}`
	if w, _ := doJSON(t, router, http.MethodPost, "/api/training/progress", body); w.Code != http.StatusOK {
		t.Fatalf("record progress status = %d", w.Code)
	}

	w, resp := doJSON(t, router, http.MethodGet, "/api/training/leaderboard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d", w.Code)
	}
	entries, ok := resp.Data.([]interface{})
	if !ok || len(entries) != 2 {
		t.Fatalf("entries = %v", resp.Data)
	}
	top, _ := entries[0].(map[string]interface{})
	if top["userId"] != float64(2) || top["rank"] != float64(1) {
		t.Errorf("top entry = %v", top)
	}

	w, resp = doJSON(t, router, http.MethodGet, "/api/training/my-rank", "")
	if w.Code != http.StatusOK {
		t.Fatalf("my-rank status = %d", w.Code)
	}
	mine, _ := resp.Data.(map[string]interface{})
	if mine["rank"] != float64(2) || mine["totalUsers"] != float64(2) {
		t.Errorf("my rank = %v", mine)
	}
}

func TestUserProgressEndpoint(t *testing.T) {
	store := seedCitizenStore()
	router := newTestRouter(store, citizenClaims())

	for _, body := range []string{
		`{"moduleId":"m1","type":"FLASHCARD","itemId":"f1","status":"MASTERED","xp":60}`,
		`{"moduleId":"m1","type":"VIDEO","itemId":"v1","status":"COMPLETED","xp":60}`,
	} {
		if w, _ := doJSON(t, router, http.MethodPost, "/api/training/progress", body); w.Code != http.StatusOK {
			t.Fatalf("record progress status = %d", w.Code)
		}
	}

	w, resp := doJSON(t, router, http.MethodGet, "/api/training/user/progress", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	p, _ := resp.Data.(map[string]interface{})
	if p["xp"] != float64(120) {
		t.Errorf("xp = %v, want 120", p["xp"])
	}
	if p["level"] != float64(2) {
		t.Errorf("level = %v, want 2", p["level"])
	}
	if p["completedModules"] != float64(1) {
		t.Errorf("completedModules = %v, want 1", p["completedModules"])
	}
	if p["streak"] != float64(1) {
		t.Errorf("streak = %v, want 1", p["streak"])
	}
}
