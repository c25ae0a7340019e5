package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/service"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/internal/invites/store"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/httpx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/jwtx"
	"github.com/dougsimpsoncodes/MyAILandlord-sub002/pkg/slogx"

	_ "github.com/dougsimpsoncodes/MyAILandlord-sub002/api/invites" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// Limits is read by ApplyRoutes; set it before calling.
	Limits httpx.RateLimits

	store           store.Store
	InviteService   *service.InviteService
	IdentityService *service.IdentityService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		Limits:       httpx.DefaultRateLimits(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvites()
	r.registerIdentities()
	r.registerResources()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Invites Service API
//	@version		0.1.0
//	@description	Issues time-boxed, limited-use invites to properties and redeems them atomically:
//	@description	one use, one resource link and at most one role assignment per redemption.
//	@description
//	@description				Bearer tokens come from the external auth provider and are verified against its EdDSA keys.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Auth provider access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvites() {
	issueHandler := &InviteIssueHandler{InviteService: r.InviteService, IdentityService: r.IdentityService}
	previewHandler := &InvitePreviewHandler{InviteService: r.InviteService}
	redeemHandler := &InviteRedeemHandler{InviteService: r.InviteService, IdentityService: r.IdentityService}
	revokeHandler := &InviteRevokeHandler{InviteService: r.InviteService, IdentityService: r.IdentityService}
	listHandler := &InviteListHandler{InviteService: r.InviteService, IdentityService: r.IdentityService}

	// POST /v1/invites - moderate rate limit by subject (owner operation)
	r.Mux.Handle("POST /v1/invites",
		httpx.Chain(issueHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(jwtx.ScopeInvitesWrite, jwtx.ScopeInvitesAdmin),
			httpx.RateLimitBySubject(r.Limits.Moderate),
		),
	)

	// GET /v1/invites/{token} - public, strict by IP to slow token guessing
	r.Mux.Handle("GET /v1/invites/{token}",
		httpx.Chain(previewHandler,
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)

	// POST /v1/invites/{token}/redeem - strict by subject
	r.Mux.Handle("POST /v1/invites/{token}/redeem",
		httpx.Chain(redeemHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(r.Limits.Strict),
		),
	)

	r.Mux.Handle("POST /v1/invites/{id}/revoke",
		httpx.Chain(revokeHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(jwtx.ScopeInvitesWrite, jwtx.ScopeInvitesAdmin),
			httpx.RateLimitBySubject(r.Limits.Moderate),
		),
	)

	r.Mux.Handle("GET /v1/resources/{id}/invites",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(jwtx.ScopeInvitesRead, jwtx.ScopeInvitesWrite, jwtx.ScopeInvitesAdmin),
			httpx.RateLimitBySubject(r.Limits.Moderate),
		),
	)
}

func (r *Router) registerIdentities() {
	h := &IdentityHandler{IdentityService: r.IdentityService}

	secured := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(limit),
		)
	}

	r.Mux.Handle("POST /v1/identities/me", secured(h.HandleEnsure, r.Limits.Lenient))
	r.Mux.Handle("GET /v1/identities/me", secured(h.HandleGet, r.Limits.Lenient))
	r.Mux.Handle("POST /v1/identities/me/role", secured(h.HandleSelectRole, r.Limits.Strict))
}

func (r *Router) registerResources() {
	h := &ResourceHandler{IdentityService: r.IdentityService}

	r.Mux.Handle("POST /v1/resources",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(r.Limits.Moderate),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
}
