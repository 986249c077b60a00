package discover

import (
	"errors"
	"net/http"

	"github.com/buidl-renaissance/renaissance-create-app-block/manifest"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DiscoverRessource serves public provider manifests, no
// authentication involved
type DiscoverRessource struct {
	logger  *zap.Logger
	builder *manifest.Builder
}

func NewDiscoverRessource(logger *zap.Logger, builder *manifest.Builder) *DiscoverRessource {
	return &DiscoverRessource{
		logger:  logger,
		builder: builder,
	}
}

func (d *DiscoverRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept"},
		MaxAge:         300,
	}))

	r.Get("/{appBlockID}/manifest", d.manifest)

	return r
}

func (d *DiscoverRessource) manifest(w http.ResponseWriter, r *http.Request) {
	appBlockID, err := uuid.Parse(chi.URLParam(r, "appBlockID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	m, err := d.builder.BuildManifest(r.Context(), appBlockID)
	if err != nil {
		// a disabled provider is indistinguishable from a missing one
		if !errors.Is(err, manifest.ErrNotAProvider) {
			d.logger.Error("could not build manifest", zap.Error(err))
		}
		http.NotFound(w, r)
		return
	}
	render.JSON(w, r, m)
}
