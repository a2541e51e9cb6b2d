package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatly/internal/domain"
	"chatly/internal/repository"
	"chatly/internal/service"
	"chatly/internal/storage"
)

// MessageHandler mantiene dependencias para endpoints de mensajes directos.
type MessageHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	messages repository.MessageRepository
	uploader storage.Uploader
}

// NewMessageHandler crea una instancia de MessageHandler con dependencias necesarias.
func NewMessageHandler(logger *zap.Logger, userServ *service.UserService, messages repository.MessageRepository, uploader storage.Uploader) *MessageHandler {
	return &MessageHandler{
		logger:   logger,
		userServ: userServ,
		messages: messages,
		uploader: uploader,
	}
}

// ListUsers maneja GET /messages/users. Devuelve todos los usuarios salvo el
// autenticado, para el sidebar del cliente.
func (h *MessageHandler) ListUsers(c *gin.Context) {
	user, ok := GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
		return
	}

	users, err := h.userServ.ListContacts(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if users == nil {
		users = []domain.User{}
	}

	c.JSON(http.StatusOK, users)
}

// GetMessages maneja GET /messages/:id. Lista la conversacion con el usuario :id.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	user, ok := GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
		return
	}

	otherID := strings.TrimSpace(c.Param("id"))
	if otherID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	messages, err := h.messages.ListConversation(c.Request.Context(), user.ID, otherID)
	if err != nil {
		h.logger.Error("list messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage maneja POST /messages/send/:id. La imagen, si viene, se sube al
// blob store antes de persistir el mensaje.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	user, ok := GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
		return
	}

	receiverID := strings.TrimSpace(c.Param("id"))
	if receiverID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var req struct {
		Text  string `json:"text"`
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid send message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Text) == "" && strings.TrimSpace(req.Image) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text or image required"})
		return
	}

	var imageURL string
	if strings.TrimSpace(req.Image) != "" {
		if h.uploader == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		url, err := h.uploader.Upload(c.Request.Context(), req.Image)
		if err != nil {
			h.logger.Error("message image upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		imageURL = url
	}

	msg := domain.Message{
		ID:         uuid.NewString(),
		SenderID:   user.ID,
		ReceiverID: receiverID,
		Text:       req.Text,
		Image:      imageURL,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.messages.Create(c.Request.Context(), msg); err != nil {
		h.logger.Error("create message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// TODO: notificar al receptor cuando exista la capa de tiempo real.
	c.JSON(http.StatusCreated, msg)
}
