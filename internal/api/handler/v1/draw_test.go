package v1_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/mpetrenko/secret-santa-api/internal/api/handler/v1"
	"github.com/mpetrenko/secret-santa-api/internal/api/middleware"
	"github.com/mpetrenko/secret-santa-api/internal/domain"
	"github.com/mpetrenko/secret-santa-api/internal/service"
)

type stubDrawService struct {
	runDraw         func(groupID, userID uint, seed *int64, avoidRepeat bool) (domain.Assignment, error)
	getMyAssignment func(groupID, userID uint) (domain.Participant, error)
	getAssignment   func(groupID, userID uint) (domain.Assignment, error)
}

func (s *stubDrawService) RunDraw(_ context.Context, groupID, userID uint, seed *int64, avoidRepeat bool) (domain.Assignment, error) {
	return s.runDraw(groupID, userID, seed, avoidRepeat)
}

func (s *stubDrawService) GetMyAssignment(_ context.Context, groupID, userID uint) (domain.Participant, error) {
	return s.getMyAssignment(groupID, userID)
}

func (s *stubDrawService) GetAssignment(_ context.Context, groupID, userID uint) (domain.Assignment, error) {
	return s.getAssignment(groupID, userID)
}

func setupDrawRouter(svc v1.DrawService, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := v1.NewDrawHandler(svc)

	authed := router.Group("/api/v1", func(ctx *gin.Context) {
		if userID != 0 {
			ctx.Set(middleware.ContextKeyUserID, userID)
		}
	})
	authed.POST("/groups/:groupID/draw", handler.HandleRunDraw)
	authed.GET("/groups/:groupID/assignment", handler.HandleGetMyAssignment)
	authed.GET("/groups/:groupID/assignments", handler.HandleGetAssignment)

	return router
}

func TestHandleRunDraw(t *testing.T) {
	assignment := domain.Assignment{
		GroupID: 5,
		Pairs: []domain.AssignmentPair{
			{GiverID: 1, ReceiverID: 2},
			{GiverID: 2, ReceiverID: 1},
		},
		Seed:    42,
		DrawnAt: time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("draws with a seed from the request body", func(t *testing.T) {
		var gotSeed *int64
		svc := &stubDrawService{
			runDraw: func(groupID, userID uint, seed *int64, avoidRepeat bool) (domain.Assignment, error) {
				assert.EqualValues(t, 5, groupID)
				assert.EqualValues(t, 7, userID)
				assert.True(t, avoidRepeat)
				gotSeed = seed

				return assignment, nil
			},
		}
		router := setupDrawRouter(svc, 7)

		body := strings.NewReader(`{"seed":42,"avoid_repeat":true}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/5/draw", body)
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusCreated, resp.Code)
		require.NotNil(t, gotSeed)
		assert.EqualValues(t, 42, *gotSeed)
		assert.Contains(t, resp.Body.String(), `"seed":42`)
		assert.Contains(t, resp.Body.String(), `"pairs"`)
	})

	t.Run("draws without a body", func(t *testing.T) {
		svc := &stubDrawService{
			runDraw: func(groupID, userID uint, seed *int64, avoidRepeat bool) (domain.Assignment, error) {
				assert.Nil(t, seed)
				assert.False(t, avoidRepeat)

				return assignment, nil
			},
		}
		router := setupDrawRouter(svc, 7)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/5/draw", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusCreated, resp.Code)
	})

	t.Run("maps service errors to status codes", func(t *testing.T) {
		tests := []struct {
			name     string
			err      error
			wantCode int
		}{
			{"group not found", service.ErrGroupNotFound, http.StatusNotFound},
			{"not organizer", service.ErrNotOrganizer, http.StatusForbidden},
			{"group closed", service.ErrGroupClosed, http.StatusConflict},
			{"not enough members", service.ErrNotEnoughMembers, http.StatusBadRequest},
			{"infeasible", service.ErrInfeasibleDraw, http.StatusUnprocessableEntity},
			{"unexpected", assert.AnError, http.StatusInternalServerError},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				svc := &stubDrawService{
					runDraw: func(_, _ uint, _ *int64, _ bool) (domain.Assignment, error) {
						return domain.Assignment{}, tc.err
					},
				}
				router := setupDrawRouter(svc, 7)

				req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/5/draw", nil)
				resp := httptest.NewRecorder()
				router.ServeHTTP(resp, req)

				assert.Equal(t, tc.wantCode, resp.Code)
			})
		}
	})

	t.Run("rejects a request without identity", func(t *testing.T) {
		router := setupDrawRouter(&stubDrawService{}, 0)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/5/draw", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("rejects a malformed group ID", func(t *testing.T) {
		router := setupDrawRouter(&stubDrawService{}, 7)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/groups/abc/draw", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestHandleGetMyAssignment(t *testing.T) {
	t.Run("returns the caller's receiver", func(t *testing.T) {
		svc := &stubDrawService{
			getMyAssignment: func(groupID, userID uint) (domain.Participant, error) {
				assert.EqualValues(t, 5, groupID)
				assert.EqualValues(t, 7, userID)

				return domain.Participant{ID: 2, Name: "Bob", Wishlist: "socks"}, nil
			},
		}
		router := setupDrawRouter(svc, 7)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/5/assignment", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"name":"Bob"`)
		assert.Contains(t, resp.Body.String(), `"wishlist":"socks"`)
	})

	t.Run("hides the round from non-members", func(t *testing.T) {
		svc := &stubDrawService{
			getMyAssignment: func(_, _ uint) (domain.Participant, error) {
				return domain.Participant{}, service.ErrNotGroupMember
			},
		}
		router := setupDrawRouter(svc, 7)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/5/assignment", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("404s before a draw has run", func(t *testing.T) {
		svc := &stubDrawService{
			getMyAssignment: func(_, _ uint) (domain.Participant, error) {
				return domain.Participant{}, service.ErrAssignmentNotFound
			},
		}
		router := setupDrawRouter(svc, 7)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/5/assignment", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestHandleGetAssignment(t *testing.T) {
	t.Run("returns the full round to the organizer", func(t *testing.T) {
		svc := &stubDrawService{
			getAssignment: func(groupID, userID uint) (domain.Assignment, error) {
				return domain.Assignment{
					GroupID: 5,
					Pairs:   []domain.AssignmentPair{{GiverID: 1, ReceiverID: 2}},
					Seed:    42,
				}, nil
			},
		}
		router := setupDrawRouter(svc, 7)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/5/assignments", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"giver_id":1`)
	})

	t.Run("forbids non-organizers", func(t *testing.T) {
		svc := &stubDrawService{
			getAssignment: func(_, _ uint) (domain.Assignment, error) {
				return domain.Assignment{}, service.ErrNotOrganizer
			},
		}
		router := setupDrawRouter(svc, 7)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/5/assignments", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
