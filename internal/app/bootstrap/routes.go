// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/ansarhub/ansarhub/internal/app/features/authgoogle"
	diagnosticsfeature "github.com/ansarhub/ansarhub/internal/app/features/diagnostics"
	healthfeature "github.com/ansarhub/ansarhub/internal/app/features/health"
	logoutfeature "github.com/ansarhub/ansarhub/internal/app/features/logout"
	messagesfeature "github.com/ansarhub/ansarhub/internal/app/features/messages"
	organizationsfeature "github.com/ansarhub/ansarhub/internal/app/features/organizations"
	usersfeature "github.com/ansarhub/ansarhub/internal/app/features/users"
	messagestore "github.com/ansarhub/ansarhub/internal/app/store/messages"
	"github.com/ansarhub/ansarhub/internal/app/store/oauthstate"
	organizationstore "github.com/ansarhub/ansarhub/internal/app/store/organizations"
	"github.com/ansarhub/ansarhub/internal/app/store/partnerapps"
	userstore "github.com/ansarhub/ansarhub/internal/app/store/users"
	"github.com/ansarhub/ansarhub/internal/app/system/auth"
	"github.com/ansarhub/ansarhub/internal/app/system/diagnose"
	"github.com/ansarhub/ansarhub/internal/app/system/identity"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Stores
	users := userstore.New(deps.MongoDatabase)
	apps := partnerapps.New(deps.MongoDatabase)
	orgs := organizationstore.New(deps.MongoDatabase)
	msgs := messagestore.New(deps.MongoDatabase)
	states := oauthstate.New(deps.MongoDatabase)

	// Services over the stores
	reconciler := identity.New(users, apps, logger)
	inspector := diagnose.New(users, apps, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication: the external identity provider's inbound path.
	googleHandler := authgooglefeature.NewHandler(
		sessionMgr, reconciler, users, states,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Notification dispatcher write path
	messagesHandler := messagesfeature.NewHandler(msgs, logger)
	r.Mount("/messages", messagesfeature.Routes(messagesHandler, sessionMgr))

	// Operator surface
	diagnosticsHandler := diagnosticsfeature.NewHandler(inspector, apps, logger)
	r.Mount("/admin", diagnosticsfeature.Routes(diagnosticsHandler, sessionMgr))

	usersHandler := usersfeature.NewHandler(users, logger)
	r.Mount("/admin/users", usersfeature.Routes(usersHandler, sessionMgr))

	orgsHandler := organizationsfeature.NewHandler(orgs, apps, logger)
	r.Mount("/admin/organizations", organizationsfeature.Routes(orgsHandler, sessionMgr))

	r.Mount("/admin/messages", messagesfeature.AdminRoutes(messagesHandler, sessionMgr))

	return r, nil
}
