package group_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vsla/internal/group"
	groupHandler "github.com/MrJamesThe3rd/vsla/internal/http/group"
)

func passThrough(next http.Handler) http.Handler { return next }

func newRouter(t *testing.T, single bool) (http.Handler, *group.MockRepository) {
	t.Helper()

	repo := group.NewMockRepository(gomock.NewController(t))

	r := chi.NewRouter()
	r.Route("/groups", func(r chi.Router) {
		groupHandler.NewHandler(group.NewService(repo, single)).Routes(r, passThrough)
	})

	return r, repo
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(m *group.MockRepository)
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}

	existing := &group.Group{ID: uuid.New(), Name: "Sunrise"}

	tests := []testCase{
		{
			name: "Created with legacy leadership keys",
			body: `{"groupName":"Sunrise","groupCode":"SUN-1","branchName":"Gbarnga",` +
				`"presidentName":"Ama","chairpersonNumber":"0770","savingsamount":"25.5"}`,
			setupMock: func(m *group.MockRepository) {
				m.EXPECT().FirstGroup(gomock.Any()).Return(nil, group.ErrNotFound)
				m.EXPECT().CodeExists(gomock.Any(), "SUN-1").Return(false, nil)
				m.EXPECT().CreateGroup(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, g *group.Group) error {
						assert.Equal(t, group.Officer{Name: "Ama", Number: "0770"}, g.Leadership[group.OfficeChairperson])
						assert.True(t, decimal.RequireFromString("25.5").Equal(g.SavingsAmountPerShare))

						return nil
					})
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Sunrise", body["groupName"])
				assert.Equal(t, "Ama", body["chairpersonName"])
				assert.Equal(t, "Ama", body["presidentName"])
				assert.InDelta(t, 25.5, body["savingsamount"], 0.001)
			},
		},
		{
			name: "Second group rejected in single-group mode",
			body: `{"groupName":"Other","branchName":"Kakata"}`,
			setupMock: func(m *group.MockRepository) {
				m.EXPECT().FirstGroup(gomock.Any()).Return(existing, nil)
			},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, existing.ID.String(), body["groupId"])
				assert.Equal(t, "Sunrise", body["groupName"])
			},
		},
		{
			name:       "Malformed body",
			body:       `{"groupName":`,
			setupMock:  func(_ *group.MockRepository) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "invalid request body", body["message"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newRouter(t, true)
			tt.setupMock(repo)

			req := httptest.NewRequest(http.MethodPost, "/groups/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.check(t, body)
		})
	}
}

func TestHandler_Get(t *testing.T) {
	active := &group.Group{ID: uuid.New(), Name: "Sunrise"}

	t.Run("Invalid id", func(t *testing.T) {
		router, _ := newRouter(t, true)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"invalid id","param":"groupID"}`, rec.Body.String())
	})

	t.Run("Other group rejected in single-group mode", func(t *testing.T) {
		router, repo := newRouter(t, true)
		repo.EXPECT().FirstGroup(gomock.Any()).Return(active, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Not found", func(t *testing.T) {
		router, repo := newRouter(t, false)
		repo.EXPECT().GetGroup(gomock.Any(), gomock.Any()).Return(nil, group.ErrNotFound)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"group not found"}`, rec.Body.String())
	})
}

func TestHandler_List_SingleGroup(t *testing.T) {
	router, repo := newRouter(t, true)
	repo.EXPECT().FirstGroup(gomock.Any()).Return(nil, group.ErrNotFound)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
