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

	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/http/handler"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/service"
)

var _ = Describe("ChatHandler", func() {
	var (
		router *gin.Engine
		svc    *mockChatService
		user   *model.User
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockChatService{}
		user = &model.User{ID: 100, Name: "Dev", Email: "dev@example.com"}

		h := handler.NewChatHandler(svc)
		group := router.Group("/chat", asUser(user))
		group.POST("/sessions", h.CreateSession)
		group.POST("/sessions/:id/messages", h.SendMessage)
		group.DELETE("/sessions/:id/messages", h.ClearHistory)
	})

	Describe("CreateSession", func() {
		It("returns 201 with the new session", func() {
			svc.createSessionFn = func(_ context.Context, userID int64, title string) (*model.ChatSession, error) {
				Expect(userID).To(Equal(int64(100)))
				return &model.ChatSession{ID: 7, UserID: userID, Title: title, IsActive: true}, nil
			}

			body, _ := json.Marshal(map[string]string{"title": "My project"})
			req := httptest.NewRequest(http.MethodPost, "/chat/sessions", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("7"))
			Expect(resp["title"]).To(Equal("My project"))
		})
	})

	Describe("SendMessage", func() {
		It("passes the parsed context kind to the service", func() {
			var gotKind assistant.ContextKind
			svc.sendMessageFn = func(_ context.Context, sessionID, userID int64, message string, kind assistant.ContextKind) (*service.ChatReply, error) {
				gotKind = kind
				return &service.ChatReply{Reply: "reviewed", Provider: "anthropic", Model: "claude-sonnet"}, nil
			}

			body, _ := json.Marshal(map[string]string{
				"message": "check this",
				"context": "code_review",
			})
			req := httptest.NewRequest(http.MethodPost, "/chat/sessions/7/messages", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotKind).To(Equal(assistant.KindCodeReview))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["reply"]).To(Equal("reviewed"))
			Expect(resp["canned"]).To(BeFalse())
		})

		It("returns 400 without a message", func() {
			req := httptest.NewRequest(http.MethodPost, "/chat/sessions/7/messages", bytes.NewBufferString(`{}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 for an unknown session", func() {
			svc.sendMessageFn = func(_ context.Context, _, _ int64, _ string, _ assistant.ContextKind) (*service.ChatReply, error) {
				return nil, service.ErrChatSessionNotFound
			}

			body, _ := json.Marshal(map[string]string{"message": "hi"})
			req := httptest.NewRequest(http.MethodPost, "/chat/sessions/999/messages", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a non-numeric session ID", func() {
			body, _ := json.Marshal(map[string]string{"message": "hi"})
			req := httptest.NewRequest(http.MethodPost, "/chat/sessions/abc/messages", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ClearHistory", func() {
		It("clears and returns 200", func() {
			cleared := false
			svc.clearHistoryFn = func(_ context.Context, sessionID, userID int64) error {
				cleared = true
				return nil
			}

			req := httptest.NewRequest(http.MethodDelete, "/chat/sessions/7/messages", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(cleared).To(BeTrue())
		})
	})
})
