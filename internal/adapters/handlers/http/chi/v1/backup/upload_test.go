package backup_test

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	httpgo "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi/response"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/handlers/http/chi/v1/backup"
	"github.com/JesuSe7e/api-envio-ftp/internal/config"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	backupservice "github.com/JesuSe7e/api-envio-ftp/internal/core/service/backup"
	clientservice "github.com/JesuSe7e/api-envio-ftp/internal/core/service/client"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testToken   = "tok-1"
	testMaxSize = 1024
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testClient() *domain.Client {
	return &domain.Client{ID: uuid.New(), Name: "Loja Centro", Token: testToken, Active: true}
}

func newRouter(backupService *backupservice.MockBackupService, clients *clientservice.MockClientService, rateLimit config.RateLimitConfig) httpgo.Handler {
	handler := backup.NewBackupHandlerV1(backupService, "file", testMaxSize, discardLogger)
	return chi.NewRouter(discardLogger, clients, handler, chi.RouterOptions{
		MaxUploadSize:  testMaxSize,
		RequestTimeout: 5 * time.Second,
		RateLimit:      rateLimit,
	})
}

func multipartRequest(t *testing.T, field string, filename string, content []byte) *httpgo.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField("note", "no file here"))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-API-Token", testToken)
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Body {
	t.Helper()
	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestUploadV1_Success(t *testing.T) {
	//Arrange
	client := testClient()
	clients := clientservice.NewMockClientService()
	clients.On("Authenticate", mock.Anything, testToken).Return(client, nil)

	content := []byte("backup content")
	backupService := backupservice.NewMockBackupService()
	backupService.On("Archive", mock.Anything, domain.UploadRequest{
		Content:      content,
		OriginalName: "Loja.accdb",
		ClientToken:  testToken,
		Client:       client,
	}).Return(&domain.ArchiveResult{
		Location: "/backups/tok-1/backup_2024-05-17T13-45-30-123Z.accdb",
		Evicted:  []string{"backup_2024-05-16T13-45-30-123Z.accdb"},
	}, nil).Once()

	h := newRouter(backupService, clients, config.RateLimitConfig{})
	w := httptest.NewRecorder()

	//Act
	h.ServeHTTP(w, multipartRequest(t, "file", "Loja.accdb", content))

	//Assert
	assert.Equal(t, httpgo.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	body := decode(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, "file sent to /backups/tok-1/backup_2024-05-17T13-45-30-123Z.accdb", body.Message)
	backupService.AssertExpectations(t)
}

func TestUploadV1_Errors(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		content     []byte
		archiveErr  error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "no file",
			wantStatus:  httpgo.StatusBadRequest,
			wantMessage: "no file uploaded",
		},
		{
			name:        "wrong field",
			field:       "upload",
			content:     []byte("x"),
			wantStatus:  httpgo.StatusBadRequest,
			wantMessage: "no file uploaded",
		},
		{
			name:        "file too large",
			field:       "file",
			content:     bytes.Repeat([]byte("a"), testMaxSize+1),
			wantStatus:  httpgo.StatusRequestEntityTooLarge,
			wantMessage: "file too large",
		},
		{
			name:        "validation error",
			field:       "file",
			content:     []byte("x"),
			archiveErr:  errorf(domain.ErrValidation, "file type not allowed, only .accdb is accepted"),
			wantStatus:  httpgo.StatusBadRequest,
			wantMessage: "file type not allowed, only .accdb is accepted",
		},
		{
			name:        "transfer error",
			field:       "file",
			content:     []byte("x"),
			archiveErr:  domain.ErrTransfer,
			wantStatus:  httpgo.StatusInternalServerError,
			wantMessage: "failed to send file to remote store",
		},
		{
			name:        "unexpected error",
			field:       "file",
			content:     []byte("x"),
			archiveErr:  assert.AnError,
			wantStatus:  httpgo.StatusInternalServerError,
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//Arrange
			clients := clientservice.NewMockClientService()
			clients.On("Authenticate", mock.Anything, testToken).Return(testClient(), nil)
			backupService := backupservice.NewMockBackupService()
			if tt.archiveErr != nil {
				backupService.On("Archive", mock.Anything, mock.Anything).Return((*domain.ArchiveResult)(nil), tt.archiveErr).Once()
			}

			h := newRouter(backupService, clients, config.RateLimitConfig{})
			w := httptest.NewRecorder()

			//Act
			h.ServeHTTP(w, multipartRequest(t, tt.field, "Loja.accdb", tt.content))

			//Assert
			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)
			if tt.archiveErr == nil {
				backupService.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUploadV1_NotMultipart(t *testing.T) {
	//Arrange
	clients := clientservice.NewMockClientService()
	clients.On("Authenticate", mock.Anything, testToken).Return(testClient(), nil)
	backupService := backupservice.NewMockBackupService()

	h := newRouter(backupService, clients, config.RateLimitConfig{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/upload", bytes.NewReader([]byte(`{"file":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Token", testToken)

	//Act
	h.ServeHTTP(w, req)

	//Assert
	assert.Equal(t, httpgo.StatusBadRequest, w.Code)
	assert.Equal(t, "no file uploaded", decode(t, w).Message)
}

func TestUploadV1_Auth(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		authErr     error
		wantMessage string
	}{
		{name: "missing token", token: "", wantMessage: "missing or invalid token"},
		{name: "blank token", token: "   ", wantMessage: "missing or invalid token"},
		{name: "unknown token", token: "nope", authErr: domain.ErrUnauthorized, wantMessage: "token not authorized"},
		{name: "lookup failure", token: "tok-1", authErr: assert.AnError, wantMessage: "token verification failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//Arrange
			clients := clientservice.NewMockClientService()
			if tt.authErr != nil {
				clients.On("Authenticate", mock.Anything, tt.token).Return((*domain.Client)(nil), tt.authErr).Once()
			}
			backupService := backupservice.NewMockBackupService()

			h := newRouter(backupService, clients, config.RateLimitConfig{})
			w := httptest.NewRecorder()
			req := multipartRequest(t, "file", "Loja.accdb", []byte("x"))
			req.Header.Set("X-API-Token", tt.token)

			//Act
			h.ServeHTTP(w, req)

			//Assert
			assert.Equal(t, httpgo.StatusForbidden, w.Code)
			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)
			backupService.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything)
			if tt.authErr == nil {
				clients.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUploadV1_RateLimitedPerClient(t *testing.T) {
	//Arrange
	clients := clientservice.NewMockClientService()
	clients.On("Authenticate", mock.Anything, testToken).Return(testClient(), nil)
	backupService := backupservice.NewMockBackupService()
	backupService.On("Archive", mock.Anything, mock.Anything).Return(&domain.ArchiveResult{Location: "/tok-1/b.accdb"}, nil)

	h := newRouter(backupService, clients, config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute})

	//Act
	first := httptest.NewRecorder()
	h.ServeHTTP(first, multipartRequest(t, "file", "Loja.accdb", []byte("x")))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, multipartRequest(t, "file", "Loja.accdb", []byte("x")))

	//Assert
	assert.Equal(t, httpgo.StatusCreated, first.Code)
	assert.Equal(t, httpgo.StatusTooManyRequests, second.Code)
	backupService.AssertNumberOfCalls(t, "Archive", 1)
}

func TestHealth(t *testing.T) {
	//Arrange
	h := newRouter(backupservice.NewMockBackupService(), clientservice.NewMockClientService(), config.RateLimitConfig{})
	w := httptest.NewRecorder()

	//Act
	h.ServeHTTP(w, httptest.NewRequest(httpgo.MethodGet, "/health", nil))

	//Assert
	assert.Equal(t, httpgo.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
