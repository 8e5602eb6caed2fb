package handler

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the host API on r
func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Get("/session", h.HandleGetSession)

	r.Route("/game", func(r chi.Router) {
		r.Post("/start", h.HandleStartGame)
		r.Post("/next-phase", h.HandleNextPhase)
		r.Post("/reset", h.HandleReset)
	})

	r.Route("/participants", func(r chi.Router) {
		r.Post("/", h.HandleJoin)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", h.HandleLeave)
			r.Get("/display", h.HandleGetDisplay)
			r.Post("/kill", h.HandleKill)
			r.Post("/revive", h.HandleRevive)
			r.Post("/items", h.HandleGiveItem)
			r.Post("/selection", h.HandleRecordSelection)
		})
	})

	r.Route("/events", func(r chi.Router) {
		r.Post("/start-pending", h.HandleStartPending)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/start", h.HandleStartEvent)
			r.Post("/resolve", h.HandleResolveEvent)
			r.Post("/skip", h.HandleSkipEvent)
			r.Post("/reset", h.HandleResetEvent)
		})
	})

	r.Route("/presentation", func(r chi.Router) {
		r.Get("/", h.HandleGetPresentation)
		r.Post("/advance", h.HandleAdvance)
		r.Post("/retreat", h.HandleRetreat)
		r.Post("/frames", h.HandlePushFrame)
		r.Post("/reset", h.HandleResetPresentation)
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", h.HandleGetCatalog)
		r.Post("/reload", h.HandleReloadCatalog)
	})
}
