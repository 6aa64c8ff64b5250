package router

import (
	"net/http"

	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/http-server/handler/dealer"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/http-server/handler/image"
	"github.com/Louistrash/lucky-flirty-blackjack-chat-sub001/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	ImageHandler  *image.ImageHandler
	DealerHandler *dealer.DealerHandler
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.Compression)

	r.Route("/api", func(r chi.Router) {
		r.Route("/images", func(r chi.Router) {
			r.Post("/optimize", h.ImageHandler.Optimize)
			r.Post("/upload", h.ImageHandler.Upload)
			r.Post("/info", h.ImageHandler.Info)
			r.Post("/compress", h.ImageHandler.Compress)
			r.Get("/placeholder/{kind}", h.ImageHandler.Placeholder)
		})

		r.Route("/dealers", func(r chi.Router) {
			r.Get("/", h.DealerHandler.List)
			r.Post("/", h.DealerHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.DealerHandler.Get)
				r.Put("/", h.DealerHandler.Update)
				r.Delete("/", h.DealerHandler.Delete)
				r.Patch("/status", h.DealerHandler.SetStatus)
				r.Get("/eligibility", h.DealerHandler.Eligibility)
				r.Get("/primary-image", h.DealerHandler.PrimaryImage)
				r.Post("/images/{slot}", h.DealerHandler.UploadImage)
				r.Post("/compact", h.DealerHandler.Compact)
				r.Post("/convert", h.DealerHandler.Convert)
			})
		})

		r.Route("/carousel", func(r chi.Router) {
			r.Get("/", h.DealerHandler.Carousel)
			r.Put("/", h.DealerHandler.SaveCarousel)
			r.Post("/add", h.DealerHandler.AddToCarousel)
			r.Post("/remove", h.DealerHandler.RemoveFromCarousel)
		})

		r.Route("/local", func(r chi.Router) {
			r.Post("/sync", h.DealerHandler.SyncLocal)
			r.Get("/export", h.DealerHandler.ExportLocal)
			r.Post("/import", h.DealerHandler.ImportLocal)
			r.Delete("/", h.DealerHandler.ResetLocal)
		})

		r.Get("/admins/{uid}", h.DealerHandler.Admin)
		r.Post("/admins/{uid}", h.DealerHandler.AddAdmin)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return r
}
