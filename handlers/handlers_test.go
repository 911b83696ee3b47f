package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TallyCrew/tally-crew-backend/internal/store"
	"github.com/TallyCrew/tally-crew-backend/middleware"
	"github.com/TallyCrew/tally-crew-backend/models"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockGroupStore implements store.GroupStore for handler tests.
type MockGroupStore struct {
	mock.Mock
}

func (m *MockGroupStore) CreateGroup(ctx context.Context, group types.Group, creatorDisplayName string) (string, error) {
	args := m.Called(ctx, group, creatorDisplayName)
	return args.String(0), args.Error(1)
}

func (m *MockGroupStore) GetGroup(ctx context.Context, id string) (*types.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Group), args.Error(1)
}

func (m *MockGroupStore) ListGroupsByUser(ctx context.Context, userID string) ([]*types.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Group), args.Error(1)
}

func (m *MockGroupStore) UpdateGroup(ctx context.Context, id string, update types.UpdateGroupRequest) (*types.Group, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Group), args.Error(1)
}

func (m *MockGroupStore) SoftDeleteGroup(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGroupStore) SetLastCalculatedDebtsAt(ctx context.Context, groupID string, at time.Time) error {
	return m.Called(ctx, groupID, at).Error(0)
}

func (m *MockGroupStore) AddMember(ctx context.Context, member types.GroupMember) (string, error) {
	args := m.Called(ctx, member)
	return args.String(0), args.Error(1)
}

func (m *MockGroupStore) GetMember(ctx context.Context, groupID, memberID string) (*types.GroupMember, error) {
	args := m.Called(ctx, groupID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GroupMember), args.Error(1)
}

func (m *MockGroupStore) ListMembers(ctx context.Context, groupID string) ([]types.GroupMember, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.GroupMember), args.Error(1)
}

func (m *MockGroupStore) RemoveMember(ctx context.Context, groupID, memberID string) error {
	return m.Called(ctx, groupID, memberID).Error(0)
}

func (m *MockGroupStore) GetMemberByUserID(ctx context.Context, groupID, userID string) (*types.GroupMember, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GroupMember), args.Error(1)
}

// MockDebtStore implements store.DebtStore for handler tests.
type MockDebtStore struct {
	mock.Mock
}

func (m *MockDebtStore) RecomputeGroupDebts(ctx context.Context, groupID string, stampCalculatedAt bool) error {
	return m.Called(ctx, groupID, stampCalculatedAt).Error(0)
}

func (m *MockDebtStore) ListGroupDebts(ctx context.Context, groupID string) ([]types.SimplifiedDebt, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.SimplifiedDebt), args.Error(1)
}

func (m *MockDebtStore) GetGroupBalances(ctx context.Context, groupID string) ([]types.MemberBalance, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.MemberBalance), args.Error(1)
}

func testUserMiddleware(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(middleware.UserIDKey), userID)
		c.Next()
	}
}

func newHandlerRouter(userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(testUserMiddleware(userID))
	return r
}

func TestCreateGroupHandler(t *testing.T) {
	groupStore := new(MockGroupStore)
	groupModel := models.NewGroupModel(groupStore, nil)
	h := NewGroupHandler(groupModel)

	r := newHandlerRouter("user-1")
	r.POST("/groups", h.CreateGroupHandler)

	group := &types.Group{ID: "group-1", Name: "Ski trip", CreatedBy: "user-1"}
	groupStore.On("CreateGroup", mock.Anything, types.Group{Name: "Ski trip", CreatedBy: "user-1"}, "Alice").
		Return("group-1", nil)
	groupStore.On("GetGroup", mock.Anything, "group-1").Return(group, nil)

	body := bytes.NewBufferString(`{"name": "Ski trip", "displayName": "Alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/groups", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Ski trip")
	groupStore.AssertExpectations(t)
}

func TestCreateGroupHandler_MissingName(t *testing.T) {
	groupStore := new(MockGroupStore)
	h := NewGroupHandler(models.NewGroupModel(groupStore, nil))

	r := newHandlerRouter("user-1")
	r.POST("/groups", h.CreateGroupHandler)

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	groupStore.AssertNotCalled(t, "CreateGroup")
}

func TestGetGroupDebtsHandler(t *testing.T) {
	groupStore := new(MockGroupStore)
	debtStore := new(MockDebtStore)
	groupModel := models.NewGroupModel(groupStore, nil)
	debtModel := models.NewDebtModel(debtStore, groupStore, groupModel, nil, 5*time.Minute)
	h := NewDebtHandler(debtModel)

	r := newHandlerRouter("user-1")
	r.GET("/groups/:groupId/debts", h.GetGroupDebtsHandler)

	group := &types.Group{ID: "group-1", Name: "Flat", CreatedBy: "user-1"}
	member := &types.GroupMember{ID: "member-1", GroupID: "group-1", DisplayName: "Alice"}
	groupStore.On("GetGroup", mock.Anything, "group-1").Return(group, nil)
	groupStore.On("GetMemberByUserID", mock.Anything, "group-1", "user-1").Return(member, nil)
	debtStore.On("ListGroupDebts", mock.Anything, "group-1").Return([]types.SimplifiedDebt{
		{GroupID: "group-1", FromMemberID: "member-2", ToMemberID: "member-1", Amount: 2500},
	}, nil)
	debtStore.On("GetGroupBalances", mock.Anything, "group-1").Return([]types.MemberBalance{
		{MemberID: "member-1", Balance: 2500},
		{MemberID: "member-2", Balance: -2500},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/groups/group-1/debts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2500")
	debtStore.AssertExpectations(t)
}

func TestGetGroupDebtsHandler_NotAMember(t *testing.T) {
	groupStore := new(MockGroupStore)
	debtStore := new(MockDebtStore)
	groupModel := models.NewGroupModel(groupStore, nil)
	h := NewDebtHandler(models.NewDebtModel(debtStore, groupStore, groupModel, nil, 5*time.Minute))

	r := newHandlerRouter("outsider")
	r.GET("/groups/:groupId/debts", h.GetGroupDebtsHandler)

	group := &types.Group{ID: "group-1", Name: "Flat", CreatedBy: "user-1"}
	groupStore.On("GetGroup", mock.Anything, "group-1").Return(group, nil)
	groupStore.On("GetMemberByUserID", mock.Anything, "group-1", "outsider").Return(nil, store.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/groups/group-1/debts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	debtStore.AssertNotCalled(t, "ListGroupDebts")
}

func TestRecalculateDebtsHandler_Cooldown(t *testing.T) {
	groupStore := new(MockGroupStore)
	debtStore := new(MockDebtStore)
	groupModel := models.NewGroupModel(groupStore, nil)
	h := NewDebtHandler(models.NewDebtModel(debtStore, groupStore, groupModel, nil, 5*time.Minute))

	r := newHandlerRouter("user-1")
	r.POST("/groups/:groupId/debts/recalculate", h.RecalculateDebtsHandler)

	justNow := time.Now().Add(-time.Minute)
	group := &types.Group{ID: "group-1", Name: "Flat", CreatedBy: "user-1", LastCalculatedDebtsAt: &justNow}
	member := &types.GroupMember{ID: "member-1", GroupID: "group-1", DisplayName: "Alice"}
	groupStore.On("GetGroup", mock.Anything, "group-1").Return(group, nil)
	groupStore.On("GetMemberByUserID", mock.Anything, "group-1", "user-1").Return(member, nil)

	req := httptest.NewRequest(http.MethodPost, "/groups/group-1/debts/recalculate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	debtStore.AssertNotCalled(t, "RecomputeGroupDebts")
}
