package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/twentyone/pkg/api/handlers"
	"github.com/cbodonnell/twentyone/pkg/api/middleware"
	authproviders "github.com/cbodonnell/twentyone/pkg/auth/providers"
	"github.com/cbodonnell/twentyone/pkg/diagnostics"
	"github.com/cbodonnell/twentyone/pkg/log"
	"github.com/cbodonnell/twentyone/pkg/wallet"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	AuthProvider authproviders.AuthProvider
	Actions      handlers.ActionHandler
	// Accounts enables the wallet and profile routes when set
	Accounts wallet.Accounts
	Limits   diagnostics.Limits
}

// NewRouter builds the API routes
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	authMiddleware := middleware.NewAuthMiddleware(opts.AuthProvider)

	r := mux.NewRouter()
	r.Use(middleware.NewCORSMiddleware())
	r.HandleFunc("/health", handlers.HandleHealth()).Methods(http.MethodGet, http.MethodOptions)

	authed := r.NewRoute().Subrouter()
	authed.Use(authMiddleware)
	authed.HandleFunc("/state", handlers.HandleGetState(opts.Actions)).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/diagnostics", handlers.HandleDiagnostics(opts.Actions, opts.Limits)).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/actions/{action}", handlers.HandlePostAction(opts.Actions)).Methods(http.MethodPost, http.MethodOptions)

	if opts.Accounts != nil {
		authority := opts.Actions.Authority()
		authed.HandleFunc("/wallets/{walletID}", handlers.HandleGetWallet(opts.Accounts, authority)).Methods(http.MethodGet, http.MethodOptions)
		authed.HandleFunc("/wallets/{walletID}", handlers.HandlePutWallet(opts.Accounts, authority)).Methods(http.MethodPut)
		authed.HandleFunc("/profiles/{participantID}", handlers.HandleGetProfile(opts.Accounts, authority)).Methods(http.MethodGet, http.MethodOptions)
		authed.HandleFunc("/profiles/{participantID}", handlers.HandlePutProfile(opts.Accounts, authority)).Methods(http.MethodPut)
	}
	return r
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
