package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"toolcrib/app"
	"toolcrib/db"
)

// SessionController issues and revokes the opaque tokens behind the
// header-token auth stub. No passwords: any known email gets a session.
type SessionController struct{ *Srv }

func NewSessionController(s *Srv) *SessionController { return &SessionController{Srv: s} }

func (sc *SessionController) Create(c *gin.Context) {
	var in struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	u, err := sc.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			fail(c, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not open session")
		return
	}

	token := uuid.NewString()
	if err := sc.Sessions.Create(c.Request.Context(), token, u.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not open session")
		return
	}
	respond(c, http.StatusCreated, gin.H{"token": token, "user": u}, "session created")
}

func (sc *SessionController) Delete(c *gin.Context) {
	token := c.GetHeader(app.SessionHeader)
	if token != "" {
		_ = sc.Sessions.Delete(c.Request.Context(), token)
	}
	respond(c, http.StatusOK, nil, "session closed")
}
