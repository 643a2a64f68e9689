package contact_submit

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	"github.com/tripointhq/TPD-BookingService/internal/integrations/zohomail"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMissingFields      = "name, email and message are required"
	msgSendFailed         = "failed to send message, try again later"
)

type Handler struct {
	mailer        Mailer
	internalEmail string
	logger        Logger
}

func NewHandler(mailer Mailer, internalEmail string, logger Logger) *Handler {
	return &Handler{
		mailer:        mailer,
		internalEmail: internalEmail,
		logger:        logger,
	}
}

// Handle POST /api/v1/contact
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /contact - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.Name) == "" ||
		!strings.Contains(req.Email, "@") ||
		strings.TrimSpace(req.Message) == "" {
		h.logger.Warn("POST /contact - Missing required fields")
		handlers.RespondBadRequest(w, msgMissingFields)
		return
	}

	body := fmt.Sprintf(
		"Contact form submission.\n\nName: %s\nEmail: %s\nPhone: %s\nPostcode: %s\n\n%s\n",
		req.Name, req.Email, req.Phone, req.Postcode, req.Message)

	err := h.mailer.Send(r.Context(), zohomail.Message{
		To:       []string{h.internalEmail},
		ReplyTo:  req.Email,
		Subject:  fmt.Sprintf("Contact form: %s", req.Name),
		TextBody: body,
	})
	if err != nil {
		h.logger.Error("POST /contact - Failed to send email: %v", err)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgSendFailed)
		return
	}

	// Автоответ клиенту: его сбой не откатывает принятую заявку
	autoReply := fmt.Sprintf(
		"Hi %s,\n\nThanks for getting in touch. We have received your message and will reply as soon as we can.\n",
		req.Name)
	if err := h.mailer.Send(r.Context(), zohomail.Message{
		To:       []string{req.Email},
		Subject:  "We received your message",
		TextBody: autoReply,
	}); err != nil {
		h.logger.Error("POST /contact - Auto-reply failed for %s: %v", req.Email, err)
	}

	h.logger.Info("POST /contact - Message forwarded from %s", req.Email)
	handlers.RespondJSON(w, http.StatusAccepted, map[string]bool{"received": true})
}
