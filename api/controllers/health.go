package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/swigepto/swigepto-backend/api/responses"
	"github.com/swigepto/swigepto-backend/pkg/config"
	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
	"github.com/swigepto/swigepto-backend/pkg/logger"
)

// Pinger is a dependency that can report its availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady checks the order store and, when configured, the session
// backend. Nil pingers are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		statuses := map[string]string{}
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				statuses[name] = "down"
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").WithDetails(statuses))
				return
			}
			statuses[name] = "ok"
		}
		responses.WriteSuccess(w, statuses)
	}
}
