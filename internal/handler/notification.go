package handler

import (
	"net/http"

	"github.com/deppfellow/coursegen/internal/lib/email"
	"github.com/deppfellow/coursegen/internal/server"
	"github.com/deppfellow/coursegen/internal/service"
	"github.com/deppfellow/coursegen/internal/validation"
	"github.com/labstack/echo/v4"
)

type NotificationHandler struct {
	Handler
	notification *service.NotificationService
}

func NewNotificationHandler(s *server.Server, notification *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		Handler:      NewHandler(s),
		notification: notification,
	}
}

// SendMailRequest sends immediately unless Queue is set.
type SendMailRequest struct {
	HTML    string `json:"html" validate:"required"`
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Queue   bool   `json:"queue"`
}

func (r *SendMailRequest) Validate() error {
	return validation.Struct(r)
}

type SendCertificateRequest struct {
	HTML  string `json:"html" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (r *SendCertificateRequest) Validate() error {
	return validation.Struct(r)
}

type QueuedEmailResponse struct {
	Queued bool   `json:"queued"`
	TaskID string `json:"taskId"`
}

func (QueuedEmailResponse) StatusCode() int {
	return http.StatusAccepted
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendMail returns the delivery receipt, or 202 with the task id when queued.
func (h *NotificationHandler) SendMail(c echo.Context, req *SendMailRequest) (any, error) {
	ctx := c.Request().Context()
	msg := email.Message{
		To:      []string{req.To},
		Subject: req.Subject,
		HTML:    req.HTML,
	}

	if req.Queue {
		taskID, err := h.notification.QueueMail(ctx, msg)
		if err != nil {
			return nil, err
		}
		return QueuedEmailResponse{Queued: true, TaskID: taskID}, nil
	}

	receipt, err := h.notification.SendMail(ctx, msg)
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (h *NotificationHandler) SendCertificate(c echo.Context, req *SendCertificateRequest) (*MessageResponse, error) {
	if err := h.notification.SendCertificate(c.Request().Context(), req.Email, req.HTML); err != nil {
		return nil, err
	}
	return &MessageResponse{Success: true, Message: "Email sent successfully"}, nil
}
