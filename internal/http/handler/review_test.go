package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sistersaas.app/assistant/internal/http/handler"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/service"
)

var _ = Describe("ReviewHandler", func() {
	var (
		router *gin.Engine
		svc    *mockReviewService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockReviewService{}
		user := &model.User{ID: 100}

		h := handler.NewReviewHandler(svc)
		group := router.Group("/reviews", asUser(user))
		group.POST("", h.Submit)
		group.GET("/:id", h.Get)
	})

	Describe("Submit", func() {
		It("returns 201 with the completed review", func() {
			svc.submitFn = func(_ context.Context, userID int64, title, language, code string) (*model.CodeReview, error) {
				return &model.CodeReview{
					ID:           5,
					UserID:       userID,
					Title:        title,
					Language:     language,
					OriginalCode: code,
					ReviewResult: "looks good",
					Status:       model.ReviewStatusCompleted,
				}, nil
			}

			body, _ := json.Marshal(map[string]string{
				"title":    "my func",
				"language": "go",
				"code":     "func main() {}",
			})
			req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["review_result"]).To(Equal("looks good"))
			Expect(resp["status"]).To(Equal(model.ReviewStatusCompleted))
		})

		It("returns 400 without code", func() {
			req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBufferString(`{"title":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 when the service fails", func() {
			svc.submitFn = func(_ context.Context, _ int64, _, _, _ string) (*model.CodeReview, error) {
				return nil, errors.New("db down")
			}

			body, _ := json.Marshal(map[string]string{"code": "x"})
			req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Get", func() {
		It("returns 404 for a missing review", func() {
			svc.getFn = func(_ context.Context, _, _ int64) (*model.CodeReview, error) {
				return nil, service.ErrReviewNotFound
			}

			req := httptest.NewRequest(http.MethodGet, "/reviews/99", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
