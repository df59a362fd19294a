package router

import (
	"net/http"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/handlers"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/middleware"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/services"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/utils"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

type Options struct {
	MaxFileSize    int64
	AllowedOrigins []string
}

// NewRouter mounts the API at the root, where the web client calls it, and
// again under /api/v1.
func NewRouter(datasetService services.DatasetService, opts Options, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	h := handlers.NewDatasetHandler(datasetService, opts.MaxFileSize, logger)

	register(r, h)
	register(r.PathPrefix("/api/v1").Subrouter(), h)

	// CORS wraps the whole router so preflight requests are answered before
	// mux rejects OPTIONS on POST-only routes.
	return middleware.CORS(opts.AllowedOrigins)(r)
}

func register(r *mux.Router, h *handlers.DatasetHandler) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/upload", h.Upload).Methods(http.MethodPost)
	r.HandleFunc("/summarize", h.Summarize).Methods(http.MethodPost)

	r.HandleFunc("/datasets", h.ListDatasets).Methods(http.MethodGet)
	r.HandleFunc("/datasets/{id}", h.GetDataset).Methods(http.MethodGet)
	r.HandleFunc("/datasets/{id}", h.DeleteDataset).Methods(http.MethodDelete)
	r.HandleFunc("/datasets/{id}/summarize", h.SummarizeDataset).Methods(http.MethodPost)
}
