package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"toolcrib/db"
	"toolcrib/models"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

func (uc *UserController) CreateUser(c *gin.Context) {
	var in struct {
		Name  string `json:"name" binding:"required,max=255"`
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	role := models.RoleStaff
	if in.Role != "" {
		r, err := models.ParseRole(in.Role)
		if err != nil {
			fail(c, http.StatusBadRequest, "bad_role", err.Error())
			return
		}
		role = r
	}

	u := &models.User{ID: uuid.NewString(), Name: in.Name, Email: in.Email, Role: role}
	if err := uc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			fail(c, http.StatusConflict, "email_taken", "email already in use")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not create user")
		return
	}
	respond(c, http.StatusCreated, u, "user created")
}

func (uc *UserController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not list users")
		return
	}
	respond(c, http.StatusOK, res, "")
}

func (uc *UserController) GetUser(c *gin.Context) {
	u, err := uc.Repo.FindUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			fail(c, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not load user")
		return
	}
	respond(c, http.StatusOK, u, "")
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	var in struct {
		Name  *string `json:"name" binding:"omitempty,max=255"`
		Email *string `json:"email" binding:"omitempty,email"`
		Role  *string `json:"role"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	update := db.UpdateUserInput{Name: in.Name, Email: in.Email}
	if in.Role != nil {
		r, err := models.ParseRole(*in.Role)
		if err != nil {
			fail(c, http.StatusBadRequest, "bad_role", err.Error())
			return
		}
		update.Role = &r
	}

	u, err := uc.Repo.UpdateUser(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			fail(c, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, db.ErrEmailTaken):
			fail(c, http.StatusConflict, "email_taken", "email already in use")
		default:
			fail(c, http.StatusInternalServerError, "internal", "could not update user")
		}
		return
	}
	respond(c, http.StatusOK, u, "user updated")
}

// DeleteUser drops the user's sessions too, so a stale token cannot resolve
// to a deleted row.
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := uc.Repo.DeleteUser(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			fail(c, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, db.ErrUserHasLoans):
			fail(c, http.StatusConflict, "user_has_loans", "user has loan history and cannot be deleted")
		default:
			fail(c, http.StatusInternalServerError, "internal", "could not delete user")
		}
		return
	}
	_ = uc.Sessions.RevokeAllForUser(c.Request.Context(), id)
	respond(c, http.StatusOK, nil, "user deleted")
}
