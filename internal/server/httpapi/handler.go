package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/qrregistry/internal/logging"
	"github.com/dmitrijs2005/qrregistry/internal/server/models"
	"github.com/dmitrijs2005/qrregistry/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

type RecordService interface {
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	Create(ctx context.Context, in models.RecordInput) (*models.Record, error)
	GetByID(ctx context.Context, id string) (*models.Record, error)
	ListByOwner(ctx context.Context) ([]*models.Record, error)
	Update(ctx context.Context, id string, patch models.RecordPatch) (*models.Record, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*models.Record, error)
}

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type QRService interface {
	Render(ctx context.Context, id string) ([]byte, error)
	Share(ctx context.Context, id string) (string, error)
}

// Handler holds the services behind the HTTP routes.
type Handler struct {
	records   RecordService
	users     UserService
	qr        QRService
	logger    logging.Logger
	jwtSecret []byte
}

func NewHandler(l logging.Logger, rs RecordService, us UserService, qs QRService, secretKey string) *Handler {
	return &Handler{
		records:   rs,
		users:     us,
		qr:        qs,
		logger:    l.With("module", "http_handler"),
		jwtSecret: []byte(secretKey),
	}
}

// Routes builds the router. Public routes accept a missing or unusable
// token and serve the caller anonymously; the rest reject a bad token.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Group(func(r chi.Router) {
		r.Use(authenticate(h.jwtSecret, true))

		r.Get("/ping", h.ping)
		r.Get("/scan/{id}", h.getRecord)

		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/refresh", h.refresh)

		r.Post("/api/scan", h.scan)
		r.Get("/api/records/{id}", h.getRecord)
		r.Get("/api/records/{id}/qr.png", h.recordQR)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate(h.jwtSecret, false))

		r.Get("/api/records", h.listRecords)
		r.Post("/api/records", h.createRecord)
		r.Get("/api/records/exists", h.existsRecord)
		r.Patch("/api/records/{id}", h.updateRecord)
		r.Delete("/api/records/{id}", h.deleteRecord)
		r.Post("/api/records/{id}/share", h.shareRecord)

		r.Get("/api/admin/records", h.listAllRecords)
	})

	return r
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "OK"})
}

// decode reads a JSON body into dst, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "empty body"
		}
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", msg)
		return false
	}
	return true
}
