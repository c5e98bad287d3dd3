package controllers

import "github.com/gin-gonic/gin"

// Every response, success or failure, is wrapped in the same envelope: a
// payload, an optional error descriptor, and a human-readable message.
type envelope struct {
	OK      bool      `json:"ok"`
	Data    any       `json:"data,omitempty"`
	Error   *errorRef `json:"error,omitempty"`
	Message string    `json:"message,omitempty"`
}

type errorRef struct {
	Code string `json:"code"`
}

func respond(c *gin.Context, status int, data any, msg string) {
	c.JSON(status, envelope{OK: true, Data: data, Message: msg})
}

func fail(c *gin.Context, status int, code, msg string) {
	c.JSON(status, envelope{OK: false, Error: &errorRef{Code: code}, Message: msg})
}
