package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/auth"
	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/handler"
	"github.com/bagdasarian/leadpipe/internal/pipeline"
	"github.com/bagdasarian/leadpipe/internal/repository"
	"github.com/bagdasarian/leadpipe/internal/service"
)

type fixture struct {
	accounts  *service.MockAccountRepository
	users     *service.MockUserRepository
	pipelines *service.MockPipelineRepository
	stages    *service.MockStageRepository
	actions   *service.MockActionRepository
	leads     *service.MockLeadRepository
	templates *service.MockTemplateRepository
	publisher *service.MockPublisher
	tokens    *auth.TokenManager
	handler   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		accounts:  new(service.MockAccountRepository),
		users:     new(service.MockUserRepository),
		pipelines: new(service.MockPipelineRepository),
		stages:    new(service.MockStageRepository),
		actions:   new(service.MockActionRepository),
		leads:     new(service.MockLeadRepository),
		templates: new(service.MockTemplateRepository),
		publisher: new(service.MockPublisher),
		tokens:    auth.NewTokenManager("test-secret", time.Hour),
	}

	logger := zap.NewNop()
	pipelineService := service.NewPipelineService(
		f.pipelines, f.stages, f.actions, f.leads,
		pipeline.NewEditor(), f.publisher, time.Millisecond, logger,
	)
	t.Cleanup(pipelineService.Close)

	h := handler.NewHandler(
		service.NewAccountService(f.accounts),
		service.NewUserService(f.users, f.accounts, f.tokens, logger),
		pipelineService,
		service.NewLeadService(f.leads, f.pipelines, f.stages, f.publisher, logger),
		service.NewTemplateService(f.templates),
		service.NewActionLibraryService(f.actions),
		logger,
		false,
	)
	f.handler = NewServer(h, ":0", nil, logger).Handler()
	return f
}

// login регистрирует пользователя в моке репозитория и возвращает токен
func (f *fixture) login(t *testing.T, user *domain.User) string {
	t.Helper()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	token, _, err := f.tokens.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

var member = &domain.User{ID: "u1", AccountID: "acc-1", Email: "member@example.com", Role: domain.RoleMember, IsActive: true}

func testPipeline() *domain.Pipeline {
	return &domain.Pipeline{ID: "pl-1", AccountID: "acc-1", Name: "Sales"}
}

func testStages() []domain.Stage {
	return []domain.Stage{
		{ID: "st-1", PipelineID: "pl-1", Name: "New", Color: "#aabbcc", Position: 0, Actions: []string{}},
		{ID: "st-2", PipelineID: "pl-1", Name: "Won", Color: "#112233", Position: 1, Actions: []string{"wait"}},
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)

	t.Run("без заголовка", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
	})

	t.Run("неверный токен", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/auth/me", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("валидный токен", func(t *testing.T) {
		token := f.login(t, member)
		rec := f.do(t, http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handler.UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "u1", resp.ID)
		assert.Equal(t, "member", resp.Role)
	})
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	hash, err := auth.HashPassword("Secret123")
	require.NoError(t, err)

	user := *member
	user.PasswordHash = hash
	f.users.On("GetByEmail", mock.Anything, "member@example.com").Return(&user, nil)

	rec := f.do(t, http.MethodPost, "/api/auth/login", "", handler.LoginRequest{
		Email:    "member@example.com",
		Password: "Secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := f.tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	rec = f.do(t, http.MethodPost, "/api/auth/login", "", handler.LoginRequest{
		Email:    "member@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, rec).Code)
}

func TestGetPipeline_OtherAccount(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	foreign := &domain.Pipeline{ID: "pl-9", AccountID: "acc-2", Name: "Foreign"}
	f.pipelines.On("GetByID", mock.Anything, "pl-9").Return(foreign, nil)
	f.stages.On("ListByPipeline", mock.Anything, "pl-9").Return([]domain.Stage{}, nil)

	rec := f.do(t, http.MethodGet, "/api/pipelines/pl-9", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)
}

func TestGetPipeline_NotFound(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	f.pipelines.On("GetByID", mock.Anything, "pl-404").Return(nil, repository.ErrPipelineNotFound)

	rec := f.do(t, http.MethodGet, "/api/pipelines/pl-404", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBoard(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	f.pipelines.On("GetByID", mock.Anything, "pl-1").Return(testPipeline(), nil)
	f.stages.On("ListByPipeline", mock.Anything, "pl-1").Return(testStages(), nil)
	f.leads.On("CountByStage", mock.Anything, "pl-1").Return(map[string]int{"st-2": 3}, nil)

	rec := f.do(t, http.MethodGet, "/api/pipelines/pl-1/board", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.BoardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Stages, 2)
	assert.Equal(t, 0, resp.Stages[0].LeadCount)
	assert.Equal(t, 3, resp.Stages[1].LeadCount)
	assert.Equal(t, "wait", resp.Stages[1].Actions[0].ActionID)
}

func TestDrop_FromLibrary(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	f.pipelines.On("GetByID", mock.Anything, "pl-1").Return(testPipeline(), nil)
	f.stages.On("ListByPipeline", mock.Anything, "pl-1").Return(testStages(), nil)
	f.actions.On("GetByID", mock.Anything, "send-email").
		Return(&domain.AutomationAction{ID: "send-email", Name: "Send email"}, nil)
	f.stages.On("SaveLayout", mock.Anything, mock.MatchedBy(func(stages []domain.Stage) bool {
		return len(stages) == 1 && stages[0].ID == "st-1" && len(stages[0].Actions) == 1
	})).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	index := 0
	rec := f.do(t, http.MethodPost, "/api/pipelines/pl-1/drop", token, handler.DropRequest{
		DraggedItemID: "send-email",
		DragSource:    "library",
		DropTarget:    handler.PositionRequest{StageID: "st-1", Index: &index},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handler.ActionInsertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Ref, "send-email_"))
	require.Len(t, resp.Pipeline.Stages, 2)
	assert.Equal(t, resp.Ref, resp.Pipeline.Stages[0].Actions[0].Ref)
	assert.Equal(t, "send-email", resp.Pipeline.Stages[0].Actions[0].ActionID)
	f.stages.AssertExpectations(t)
}

func TestDrop_Validation(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	f.pipelines.On("GetByID", mock.Anything, "pl-1").Return(testPipeline(), nil)
	f.stages.On("ListByPipeline", mock.Anything, "pl-1").Return(testStages(), nil)

	rec := f.do(t, http.MethodPost, "/api/pipelines/pl-1/drop", token, map[string]any{
		"dragged_item_id": "send-email",
		"drag_source":     "toolbar",
		"drop_target":     map[string]any{"stage_id": "st-1", "index": 0},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
	f.stages.AssertNotCalled(t, "SaveLayout", mock.Anything, mock.Anything)
}

func TestMoveStage_OutOfRange(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	f.pipelines.On("GetByID", mock.Anything, "pl-1").Return(testPipeline(), nil)
	f.stages.On("ListByPipeline", mock.Anything, "pl-1").Return(testStages(), nil)

	from, to := 0, 5
	rec := f.do(t, http.MethodPost, "/api/pipelines/pl-1/stages/move", token, handler.MoveStageRequest{
		From: &from,
		To:   &to,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.stages.AssertNotCalled(t, "SaveLayout", mock.Anything, mock.Anything)
}

func TestRemoveAction_BadIndex(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	f.stages.On("GetByID", mock.Anything, "st-1").Return(&testStages()[0], nil)
	f.pipelines.On("GetByID", mock.Anything, "pl-1").Return(testPipeline(), nil)
	f.stages.On("ListByPipeline", mock.Anything, "pl-1").Return(testStages(), nil)

	rec := f.do(t, http.MethodDelete, "/api/stages/st-1/actions/first", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, rec).Code)
}

func TestUpdateStageColor_Accepted(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	saved := make(chan string, 1)
	f.stages.On("GetByID", mock.Anything, "st-1").Return(&testStages()[0], nil)
	f.pipelines.On("GetByID", mock.Anything, "pl-1").Return(testPipeline(), nil)
	f.stages.On("ListByPipeline", mock.Anything, "pl-1").Return(testStages(), nil)
	f.stages.On("UpdateColor", mock.Anything, "st-1", "#ff00aa").
		Run(func(args mock.Arguments) { saved <- args.String(2) }).
		Return(nil)

	rec := f.do(t, http.MethodPut, "/api/stages/st-1/color", token, handler.ColorRequest{Color: "#FF00AA"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case color := <-saved:
		assert.Equal(t, "#ff00aa", color)
	case <-time.After(time.Second):
		t.Fatal("цвет не сохранен")
	}
}

func TestCreateUser_RequiresManager(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	rec := f.do(t, http.MethodPost, "/api/accounts/acc-1/users", token, handler.CreateUserRequest{
		Email:    "new@example.com",
		Name:     "New",
		Password: "Secret123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_SuperadminGrant(t *testing.T) {
	f := newFixture(t)
	owner := &domain.User{ID: "u2", AccountID: "acc-1", Role: domain.RoleOwner, IsActive: true}
	token := f.login(t, owner)

	rec := f.do(t, http.MethodPost, "/api/accounts/acc-1/users", token, handler.CreateUserRequest{
		Email:    "root@example.com",
		Name:     "Root",
		Role:     "superadmin",
		Password: "Secret123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListLeads_Filter(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	created := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	f.leads.On("ListByAccount", mock.Anything, "acc-1").Return([]*domain.Lead{
		{ID: "ld-1", AccountID: "acc-1", FirstName: "Jonathan", LastName: "Smith", Email: "jon@example.com", CreatedAt: created},
		{ID: "ld-2", AccountID: "acc-1", FirstName: "Maria", LastName: "Lopez", Email: "maria@example.com", CreatedAt: created},
	}, nil)

	rec := f.do(t, http.MethodGet, "/api/accounts/acc-1/leads?q=jonathon&fuzzy=true&created_from=2024-03-01", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []handler.LeadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "ld-1", resp[0].ID)
	assert.Equal(t, "Jonathan Smith", resp[0].FullName)

	rec = f.do(t, http.MethodGet, "/api/accounts/acc-1/leads?min_value=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLeads_SameDayRange(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	f.leads.On("ListByAccount", mock.Anything, "acc-1").Return([]*domain.Lead{
		{ID: "ld-1", AccountID: "acc-1", FirstName: "Ann", CreatedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)},
		{ID: "ld-2", AccountID: "acc-1", FirstName: "Bob", CreatedAt: time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)},
	}, nil)

	rec := f.do(t, http.MethodGet, "/api/accounts/acc-1/leads?created_from=2024-03-15&created_to=2024-03-15", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []handler.LeadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "ld-1", resp[0].ID)
}

func TestListAccounts_Member(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	f.accounts.On("GetByID", mock.Anything, "acc-1").
		Return(&domain.Account{ID: "acc-1", Name: "Acme"}, nil)

	rec := f.do(t, http.MethodGet, "/api/accounts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []handler.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Acme", resp[0].Name)
	f.accounts.AssertNotCalled(t, "List", mock.Anything)
}

func TestSessionHistory(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	rec := f.do(t, http.MethodPost, "/api/session/history", token, handler.NavigationRequest{Path: "/pipelines/pl-1", Title: "Sales"})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "recent_navigation", cookies[0].Name)
	assert.Equal(t, 30*24*60*60, cookies[0].MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/api/session/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var history []handler.NavigationEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "/pipelines/pl-1", history[0].Path)
}

func TestSessionHistory_CookieSizeLimit(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, member)

	var cookie *http.Cookie
	for i := 0; i < 10; i++ {
		path := fmt.Sprintf("/%d", i) + strings.Repeat("%", 510)
		body, err := json.Marshal(handler.NavigationRequest{Path: path, Title: strings.Repeat("&", 255)})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/session/history", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		header := rec.Header().Get("Set-Cookie")
		assert.Less(t, len(header), 4096, "запись %d", i)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		cookie = cookies[0]

		var history []handler.NavigationEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
		require.NotEmpty(t, history)
		assert.Equal(t, path, history[0].Path, "последний переход сохраняется")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodGet, "/healthz", "", nil)
	rec := f.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `handler="GET /healthz"`)
	assert.Contains(t, body, "go_goroutines")
}
