package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hk-blood-donation/internal/services"
)

type ContactController struct {
	mailer     services.Mailer
	adminEmail string
	log        *zap.Logger
}

func NewContactController(mailer services.Mailer, adminEmail string, log *zap.Logger) *ContactController {
	return &ContactController{mailer: mailer, adminEmail: adminEmail, log: log}
}

// Submit forwards a contact form to the admin inbox and confirms
// receipt to the sender. Both sends are synchronous.
func (ct *ContactController) Submit(c *gin.Context) {
	var p struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&p); err != nil ||
		p.Name == "" || p.Email == "" || p.Subject == "" || p.Message == "" {
		badRequest(c, "Name, email, subject, and message are required")
		return
	}

	phone := p.Phone
	if phone == "" {
		phone = "Not provided"
	}
	adminBody := fmt.Sprintf(
		"New Contact Form Submission:\r\n\r\nName: %s\r\nEmail: %s\r\nPhone: %s\r\nSubject: %s\r\n\r\nMessage:\r\n%s",
		p.Name, p.Email, phone, p.Subject, p.Message)
	userBody := fmt.Sprintf(
		"Thank you for contacting us!\r\n\r\nWe have received your message regarding %q and will get back to you soon.\r\n\r\nYour message:\r\n%s",
		p.Subject, p.Message)

	if err := ct.mailer.Send(ct.adminEmail, "New Contact Form Submission", adminBody); err != nil {
		ct.log.Error("failed to notify admin", zap.Error(err))
		serverError(c, "Failed to send message")
		return
	}
	if err := ct.mailer.Send(p.Email, "We received your message", userBody); err != nil {
		ct.log.Error("failed to send confirmation", zap.Error(err))
		serverError(c, "Failed to send message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Thank you for your message! We will get back to you soon.",
	})
}
