package controllers

import (
	"net/http"

	"github.com/swigepto/swigepto-backend/api/middleware"
	"github.com/swigepto/swigepto-backend/internal/session"
	pkgerrors "github.com/swigepto/swigepto-backend/pkg/errors"
)

func sessionFromRequest(r *http.Request, store session.Store) (*session.Session, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return store.Get(r.Context(), sessionID)
}
