package router

import (
	"net/http"

	"cardstudio/config"
	accounthandler "cardstudio/internal/account"
	accountrepo "cardstudio/internal/account/repository"
	accountservice "cardstudio/internal/account/service"
	cardhandler "cardstudio/internal/card"
	cardrepo "cardstudio/internal/card/repository"
	cardservice "cardstudio/internal/card/service"
	"cardstudio/middleware"
	"cardstudio/pkg/httpjson"
	"cardstudio/socket"
)

// Logo data URLs dominate request size; everything else is tiny.
const maxBodyBytes = 5 << 20

func Setup(cfg *config.Config, accounts accountrepo.Repository, cards cardrepo.Repository, hub *socket.Hub) http.Handler {
	mux := http.NewServeMux()

	authService := accountservice.NewAuthService(accounts, cfg.JWTSecret, cfg.TokenTTL)
	authHandler := accounthandler.NewAuthHandler(authService)
	cardService := cardservice.NewCardService(cards, hub)
	cardHandler := cardhandler.NewCardHandler(cardService)
	auth := middleware.Auth([]byte(cfg.JWTSecret), accounts)

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.Handle("POST /api/cards", auth(http.HandlerFunc(cardHandler.Create)))
	mux.Handle("GET /api/cards", auth(http.HandlerFunc(cardHandler.List)))
	mux.Handle("GET /api/cards/{id}", auth(http.HandlerFunc(cardHandler.Get)))
	mux.Handle("PUT /api/cards/{id}", auth(http.HandlerFunc(cardHandler.Update)))
	mux.Handle("DELETE /api/cards/{id}", auth(http.HandlerFunc(cardHandler.Delete)))

	// WebSocket: card change events for the caller's other sessions
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFrom(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "No token provided")
			return
		}
		socket.ServeWs(hub, w, r, identity.ID)
	})
	mux.Handle("GET /ws", auth(wsHandler))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Error(w, http.StatusNotFound, "Route not found")
	})

	var handler http.Handler = mux
	handler = bodyLimit(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CORS(cfg.CORSOrigins)(handler)
	return handler
}

func bodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
