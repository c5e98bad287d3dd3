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

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

func (ic *ItemController) CreateItem(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required,max=200"`
		Description string `json:"description" binding:"max=2000"`
		Category    string `json:"category" binding:"required,max=120"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	it := &models.Item{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Status:      models.StatusAvailable,
	}
	if err := ic.Repo.CreateItem(c.Request.Context(), it); err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not create item")
		return
	}
	respond(c, http.StatusCreated, it, "item created")
}

func (ic *ItemController) ListItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ic.Repo.ListItems(c.Request.Context(), db.ItemsQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not list items")
		return
	}
	respond(c, http.StatusOK, res, "")
}

func (ic *ItemController) GetItem(c *gin.Context) {
	it, err := ic.Repo.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			fail(c, http.StatusNotFound, "item_not_found", "item not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal", "could not load item")
		return
	}
	respond(c, http.StatusOK, it, "")
}

func (ic *ItemController) UpdateItem(c *gin.Context) {
	var in struct {
		Name        *string `json:"name" binding:"omitempty,max=200"`
		Description *string `json:"description" binding:"omitempty,max=2000"`
		Category    *string `json:"category" binding:"omitempty,max=120"`
		Status      *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	update := db.UpdateItemInput{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
	}
	if in.Status != nil {
		st := models.ItemStatus(*in.Status)
		if !st.Valid() {
			fail(c, http.StatusBadRequest, "bad_status", "unknown item status")
			return
		}
		update.Status = &st
	}

	it, err := ic.Repo.UpdateItemCatalog(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			fail(c, http.StatusNotFound, "item_not_found", "item not found")
		case errors.Is(err, db.ErrLentStatus):
			fail(c, http.StatusConflict, "lent_status", "lent status can only change through lend/return")
		default:
			fail(c, http.StatusInternalServerError, "internal", "could not update item")
		}
		return
	}
	respond(c, http.StatusOK, it, "item updated")
}

func (ic *ItemController) DeleteItem(c *gin.Context) {
	err := ic.Repo.DeleteItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			fail(c, http.StatusNotFound, "item_not_found", "item not found")
		case errors.Is(err, db.ErrItemHasLoans):
			fail(c, http.StatusConflict, "item_has_loans", "item has loan history and cannot be deleted")
		default:
			fail(c, http.StatusInternalServerError, "internal", "could not delete item")
		}
		return
	}
	respond(c, http.StatusOK, nil, "item deleted")
}
