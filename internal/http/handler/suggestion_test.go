package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sistersaas.app/assistant/internal/http/handler"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/service"
)

var _ = Describe("SuggestionHandler", func() {
	var (
		router *gin.Engine
		svc    *mockSuggestionService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockSuggestionService{}
		user := &model.User{ID: 100}

		h := handler.NewSuggestionHandler(svc)
		group := router.Group("/suggestions", asUser(user))
		group.POST("", h.Generate)
		group.GET("/:id", h.Get)
	})

	Describe("Generate", func() {
		It("passes the project info through and returns 201", func() {
			var gotInfo map[string]string
			svc.generateFn = func(_ context.Context, userID int64, projectInfo map[string]string) (*model.ProjectSuggestion, error) {
				gotInfo = projectInfo
				return &model.ProjectSuggestion{
					ID:             3,
					UserID:         userID,
					Title:          "Add caching",
					SuggestionType: model.SuggestionTypePerformance,
					Priority:       model.PriorityHigh,
				}, nil
			}

			body, _ := json.Marshal(map[string]any{
				"project_info": map[string]string{"stack": "django", "traffic": "high"},
			})
			req := httptest.NewRequest(http.MethodPost, "/suggestions", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(gotInfo).To(HaveKeyWithValue("stack", "django"))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["title"]).To(Equal("Add caching"))
			Expect(resp["suggestion_type"]).To(Equal(model.SuggestionTypePerformance))
		})

		It("returns 400 without project info", func() {
			req := httptest.NewRequest(http.MethodPost, "/suggestions", bytes.NewBufferString(`{}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Get", func() {
		It("returns 404 for a missing suggestion", func() {
			svc.getFn = func(_ context.Context, _, _ int64) (*model.ProjectSuggestion, error) {
				return nil, service.ErrSuggestionNotFound
			}

			req := httptest.NewRequest(http.MethodGet, "/suggestions/42", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
