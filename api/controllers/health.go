package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/smallwonder/storefront-api/api/responses"
	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
	"github.com/smallwonder/storefront-api/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is the health-check surface every dependency exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness only.
func HealthLive(cfg config.AppConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.Env,
		})
	}
}

// HealthReady pings every registered dependency and fails when any one is
// unreachable.
func HealthReady(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		components := map[string]string{}
		failed := false
		for name, dep := range deps {
			if dep == nil {
				components[name] = "not configured"
				failed = true
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				components[name] = err.Error()
				failed = true
				continue
			}
			components[name] = "ok"
		}

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "one or more dependencies are unavailable").
				WithDetails(components)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status":     "ok",
			"components": components,
		})
	}
}
