package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"toolcrib/lending"
	"toolcrib/models"
)

type LendingController struct{ *Srv }

func NewLendingController(s *Srv) *LendingController { return &LendingController{Srv: s} }

type lendReq struct {
	ItemID     string `json:"itemId" binding:"required,uuid"`
	BorrowerID string `json:"borrowerId" binding:"required,uuid"`
	Notes      string `json:"notes" binding:"max=1000"`
}

type returnReq struct {
	ItemID string `json:"itemId" binding:"required,uuid"`
	Notes  string `json:"notes" binding:"max=1000"`
}

type transitionResult struct {
	Item *models.Item `json:"item"`
	Loan *models.Loan `json:"loanRecord"`
}

func (lc *LendingController) Lend(c *gin.Context) {
	var in lendReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	item, loan, err := lc.Coord.Lend(c.Request.Context(), in.ItemID, in.BorrowerID, in.Notes)
	if err != nil {
		lc.failLending(c, err)
		return
	}
	respond(c, http.StatusOK, transitionResult{Item: item, Loan: loan}, "item lent")
}

func (lc *LendingController) Return(c *gin.Context) {
	var in returnReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	item, loan, err := lc.Coord.Return(c.Request.Context(), in.ItemID, in.Notes)
	if err != nil {
		lc.failLending(c, err)
		return
	}
	respond(c, http.StatusOK, transitionResult{Item: item, Loan: loan}, "item returned")
}

func (lc *LendingController) History(c *gin.Context) {
	itemID := c.Param("itemId")
	loans, err := lc.Coord.History(c.Request.Context(), itemID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not load history")
		return
	}
	respond(c, http.StatusOK, gin.H{"loans": loans}, "")
}

func (lc *LendingController) Active(c *gin.Context) {
	open, err := lc.Coord.ListOpenLoans(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal", "could not load open loans")
		return
	}
	respond(c, http.StatusOK, gin.H{"loans": open}, "")
}

// failLending maps coordinator error kinds onto HTTP statuses. Integrity
// faults stay generic: the detail is in the logs, not the response.
func (lc *LendingController) failLending(c *gin.Context, err error) {
	var e *lending.Error
	if !errors.As(err, &e) {
		fail(c, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	switch e.Kind {
	case lending.KindNotFound:
		fail(c, http.StatusNotFound, e.Reason, e.Error())
	case lending.KindInvalidState:
		fail(c, http.StatusConflict, e.Reason, e.Error())
	case lending.KindValidation:
		fail(c, http.StatusBadRequest, e.Reason, e.Error())
	case lending.KindTransaction:
		fail(c, http.StatusServiceUnavailable, e.Reason, "storage temporarily unavailable, please retry")
	default:
		fail(c, http.StatusInternalServerError, "internal", "internal error")
	}
}
