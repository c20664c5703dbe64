// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	userstore "github.com/ansarhub/ansarhub/internal/app/store/users"
	"github.com/ansarhub/ansarhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// AnsarHub uses it to promote the configured superadmin. The promotion goes
// through SetRole, the sanctioned administrative override, never through
// reconciliation.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail == "" {
		return nil
	}

	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByEmail(ctx, appCfg.SuperAdminEmail)
	if err == mongo.ErrNoDocuments {
		// The user has not logged in yet; promotion happens on a later
		// restart once reconciliation has created the record.
		logger.Info("superadmin user not found yet; skipping promotion",
			zap.String("email", appCfg.SuperAdminEmail))
		return nil
	}
	if err != nil {
		return err
	}

	if u.Role == models.RoleSuperAdmin {
		return nil
	}

	if err := users.SetRole(ctx, u.ID, models.RoleSuperAdmin, nil); err != nil {
		return err
	}
	logger.Info("superadmin promoted",
		zap.String("email", appCfg.SuperAdminEmail),
		zap.String("user_id", u.ID.Hex()))
	return nil
}
