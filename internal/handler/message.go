package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/triply/triply-backend/internal/config"
	"github.com/triply/triply-backend/internal/model"
	"github.com/triply/triply-backend/internal/queue"
	"github.com/triply/triply-backend/internal/repository"
	queue_publisher "github.com/triply/triply-backend/internal/service"
)

// MessageHandler takes contact-form submissions from the public and
// gives admins an inbox with reply support. Replies are delivered
// through the email queue.
type MessageHandler struct {
	Cfg         config.Config
	MessageRepo *repository.MessageRepo
	EmailLogs   *repository.EmailLogRepo
}

func NewMessageHandler(cfg config.Config, messages *repository.MessageRepo, logs *repository.EmailLogRepo) *MessageHandler {
	if messages == nil || logs == nil {
		panic("nil repository passed to NewMessageHandler")
	}
	return &MessageHandler{Cfg: cfg, MessageRepo: messages, EmailLogs: logs}
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Create handles POST /v1/messages. No authentication; the rate
// limiter is the only throttle on this endpoint.
func (h *MessageHandler) Create(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	switch {
	case strings.TrimSpace(req.Name) == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	case !strings.Contains(req.Email, "@"):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid email is required"})
	case strings.TrimSpace(req.Body) == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body is required"})
	case len(req.Body) > 10000:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body is too long"})
	}

	m := model.Message{
		Name:    strings.TrimSpace(req.Name),
		Email:   req.Email,
		Subject: strings.TrimSpace(req.Subject),
		Body:    req.Body,
	}
	if err := h.MessageRepo.Create(c.Request().Context(), &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save message"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

// List handles GET /v1/admin/messages with ?unread=true and paging.
func (h *MessageHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)
	unreadOnly, _ := strconv.ParseBool(c.QueryParam("unread"))
	items, total, err := h.MessageRepo.List(c.Request().Context(), unreadOnly, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"total": total,
		"page":  page,
	})
}

// MarkRead handles POST /v1/admin/messages/:id/read.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}
	if err := h.MessageRepo.MarkRead(c.Request().Context(), id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark message read"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_read": true})
}

type replyReq struct {
	Reply string `json:"reply"`
}

// Reply handles POST /v1/admin/messages/:id/reply. The reply is stored
// on the message and queued for email delivery to the sender.
func (h *MessageHandler) Reply(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}
	var req replyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Reply) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reply is required"})
	}

	ctx := c.Request().Context()
	m, err := h.MessageRepo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.MessageRepo.Reply(ctx, id, req.Reply); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save reply"})
	}

	subject := "Re: " + m.Subject
	if m.Subject == "" {
		subject = "Re: your message to Triply"
	}
	pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishEmail(pubCtx, h.Cfg.AMQPURL, queue.EmailSendEvent{
		Recipient: m.Email,
		Template:  queue.TemplateMessageReply,
		Subject:   subject,
		Body:      req.Reply,
	})

	return c.JSON(http.StatusOK, echo.Map{"id": id, "replied": true})
}

// ListEmailLogs handles GET /v1/admin/email-logs; newest entries first.
func (h *MessageHandler) ListEmailLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.EmailLogs.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}
