// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/reelhub/reelhub/internal/app/features/authgoogle"
	groupsfeature "github.com/reelhub/reelhub/internal/app/features/groups"
	healthfeature "github.com/reelhub/reelhub/internal/app/features/health"
	loginfeature "github.com/reelhub/reelhub/internal/app/features/login"
	logoutfeature "github.com/reelhub/reelhub/internal/app/features/logout"
	moviesfeature "github.com/reelhub/reelhub/internal/app/features/movies"
	profilefeature "github.com/reelhub/reelhub/internal/app/features/profile"
	recsfeature "github.com/reelhub/reelhub/internal/app/features/recommendations"
	signupfeature "github.com/reelhub/reelhub/internal/app/features/signup"
	watchlistfeature "github.com/reelhub/reelhub/internal/app/features/watchlist"
	groupstore "github.com/reelhub/reelhub/internal/app/store/groups"
	"github.com/reelhub/reelhub/internal/app/store/oauthstate"
	recstore "github.com/reelhub/reelhub/internal/app/store/recommendations"
	userstore "github.com/reelhub/reelhub/internal/app/store/users"
	watchstore "github.com/reelhub/reelhub/internal/app/store/watchlists"
	"github.com/reelhub/reelhub/internal/app/system/auth"
	"github.com/reelhub/reelhub/internal/app/system/omdb"
	"github.com/reelhub/reelhub/internal/app/system/requestlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// ReelHub builds its stores and the OMDb client, applies session middleware,
// and mounts JSON feature routers for accounts, groups, recommendations,
// watchlists, and movie lookup.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.ReelHubMongoDatabase
	users := userstore.New(db)
	groups := groupstore.New(db)
	recs := recstore.New(db)
	watch := watchstore.New(db)
	states := oauthstate.New(db)
	movies := omdb.New(appCfg.OMDbBaseURL, appCfg.OMDbAPIKey, logger)

	r := chi.NewRouter()

	// Request logging first so every request is accounted for.
	r.Use(requestlog.Middleware(logger))

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via authz.UserCtx(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ReelHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Accounts and sessions
	signupHandler := signupfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	loginHandler := loginfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(users, sessionMgr, states,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, appCfg.FrontendURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	profileHandler := profilefeature.NewHandler(users, watch, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// Groups and recommendations
	groupsHandler := groupsfeature.NewHandler(groups, users, recs, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	recsHandler := recsfeature.NewHandler(groups, recs, logger)
	r.Mount("/groups/{groupID}/recommendations", recsfeature.Routes(recsHandler, sessionMgr))

	// Personal watchlist and watched ledger
	watchHandler := watchlistfeature.NewHandler(watch, logger)
	r.Mount("/watchlist", watchlistfeature.Routes(watchHandler, sessionMgr))

	// Movie search and detail lookup
	moviesHandler := moviesfeature.NewHandler(movies, groups, recs, logger)
	r.Mount("/movies", moviesfeature.Routes(moviesHandler, sessionMgr))

	return r, nil
}
