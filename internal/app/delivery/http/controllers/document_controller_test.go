package controllers

import (
	"context"
	"io"
	"medrecords-service/internal/app/contracts/contractstest"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/dto/responses"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ctxReader fails once the context it was opened under is done, like a
// storage stream tied to its request.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func (c *ctxReader) Close() error { return nil }

func serveDownload(t *testing.T, ctrl *DocumentController) (*httptest.ResponseRecorder, context.Context) {
	t.Helper()
	session := &models.Session{AccountID: "p1", Role: models.RolePatient}

	reader := &ctxReader{r: strings.NewReader("%PDF-report")}
	usecase := ctrl.DocumentUsecase.(*contractstest.MockDocumentUsecase)
	usecase.On("DownloadDocument", mock.Anything, session, "doc-1").
		Run(func(args mock.Arguments) {
			reader.ctx = args.Get(0).(context.Context)
		}).
		Return(&responses.DocumentContent{
			DocumentID:  "doc-1",
			FileName:    "report.pdf",
			ContentType: "application/pdf",
			Reader:      reader,
		}, nil).Once()

	router := chi.NewRouter()
	router.Get("/documents/{document_id}/download", ctrl.DownloadDocument)

	req := httptest.NewRequest(http.MethodGet, "/documents/doc-1/download", nil)
	ctx := context.WithValue(req.Context(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
	ctx = context.WithValue(ctx, constvars.CONTEXT_SESSION_DATA_KEY, session)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))

	usecase.AssertExpectations(t)
	require.NotNil(t, reader.ctx)
	return rec, reader.ctx
}

func TestDocumentController_DownloadUsesDownloadDeadline(t *testing.T) {
	ctrl := &DocumentController{
		Log:             zap.NewNop(),
		DocumentUsecase: &contractstest.MockDocumentUsecase{},
		DownloadTimeout: 2 * time.Minute,
	}
	start := time.Now()

	rec, streamCtx := serveDownload(t, ctrl)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-report", rec.Body.String())

	deadline, ok := streamCtx.Deadline()
	require.True(t, ok)
	assert.True(t, deadline.After(start.Add(constvars.DefaultRequestTimeoutSec*time.Second)))
	assert.False(t, deadline.After(start.Add(2*time.Minute+time.Second)))
	// released once the body is written
	assert.Error(t, streamCtx.Err())
}

func TestDocumentController_DownloadDefaultDeadline(t *testing.T) {
	ctrl := &DocumentController{
		Log:             zap.NewNop(),
		DocumentUsecase: &contractstest.MockDocumentUsecase{},
	}
	start := time.Now()

	rec, streamCtx := serveDownload(t, ctrl)

	require.Equal(t, http.StatusOK, rec.Code)
	deadline, ok := streamCtx.Deadline()
	require.True(t, ok)
	assert.True(t, deadline.After(start.Add((constvars.DefaultDownloadTimeoutSec-1)*time.Second)))
}
