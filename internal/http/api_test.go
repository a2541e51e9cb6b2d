package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"chatly/internal/domain"
	"chatly/internal/repository"
	"chatly/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if _, exists := m.usersByEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	user.PasswordHash = ""
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) UpdateProfilePicture(_ context.Context, id, pictureURL string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	user.ProfilePicture = pictureURL
	m.usersByID[id] = user
	user.PasswordHash = ""
	return user, nil
}

func (m *mockUserRepo) ListOthers(_ context.Context, excludeID string) ([]domain.User, error) {
	var users []domain.User
	for id, user := range m.usersByID {
		if id == excludeID {
			continue
		}
		user.PasswordHash = ""
		users = append(users, user)
	}
	return users, nil
}

type mockMessageRepo struct {
	messages []domain.Message
}

func (m *mockMessageRepo) Create(_ context.Context, message domain.Message) error {
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockMessageRepo) ListConversation(_ context.Context, userID, otherID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.messages {
		if (msg.SenderID == userID && msg.ReceiverID == otherID) ||
			(msg.SenderID == otherID && msg.ReceiverID == userID) {
			out = append(out, msg)
		}
	}
	return out, nil
}

type mockUploader struct {
	url string
	err error
}

func (m *mockUploader) Upload(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.url, nil
}

type testAPI struct {
	router   *gin.Engine
	users    *mockUserRepo
	messages *mockMessageRepo
	uploader *mockUploader
	jwtSvc   *service.JWTService
}

func newTestAPI() *testAPI {
	gin.SetMode(gin.TestMode)
	users := newMockUserRepo()
	messages := &mockMessageRepo{}
	uploader := &mockUploader{url: "https://blobs.example.com/pic"}

	jwtSvc := service.NewJWTService("secret", false)
	userSvc := service.NewUserService(zap.NewNop(), users, uploader, nil)
	authH := NewAuthHandler(zap.NewNop(), userSvc, jwtSvc)
	msgH := NewMessageHandler(zap.NewNop(), userSvc, messages, uploader)

	return &testAPI{
		router:   NewRouter(zap.NewNop(), jwtSvc, userSvc, authH, msgH),
		users:    users,
		messages: messages,
		uploader: uploader,
		jwtSvc:   jwtSvc,
	}
}

func performRequest(r http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == service.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func (a *testAPI) signup(fullName, email, password string) (*httptest.ResponseRecorder, *http.Cookie) {
	rec := performRequest(a.router, http.MethodPost, "/signup", map[string]string{
		"full_name": fullName,
		"email":     email,
		"password":  password,
	})
	return rec, sessionCookie(rec)
}

func (a *testAPI) seedMessage(senderID, receiverID, text string) {
	a.messages.messages = append(a.messages.messages, domain.Message{
		ID:         "m-" + text,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	})
}
