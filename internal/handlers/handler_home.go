package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} dto.Envelope
// @Router / [get]
func getHome(ctx *gin.Context) {
	respondMessage(ctx, http.StatusOK, "Association backend API v1")
}
