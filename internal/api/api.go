// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具
//
// Package api serves a read-only live view of the running encode.

package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ZSC714725/vcompress/internal/encode"
	"github.com/ZSC714725/vcompress/internal/logger"
)

// Report carries the retained encoder log.
type Report struct {
	Log [][2]string `json:"log"`
}

// Handler exposes the supervisor state over HTTP
type Handler struct {
	sup *encode.Supervisor
}

// NewHandler creates a Handler
func NewHandler(sup *encode.Supervisor) *Handler {
	return &Handler{sup: sup}
}

// State returns the live run status
func (h *Handler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.sup.Status())
}

// Report returns the retained stderr lines
func (h *Handler) Report(c *gin.Context) {
	report := Report{Log: [][2]string{}}
	for _, line := range h.sup.Log() {
		report.Log = append(report.Log, [2]string{
			line.Timestamp.Format("2006-01-02 15:04:05"),
			line.Data,
		})
	}
	c.JSON(http.StatusOK, report)
}

// NewRouter builds the HTTP router
func NewRouter(sup *encode.Supervisor) *gin.Engine {
	handler := NewHandler(sup)

	r := gin.New()
	r.Use(gin.Recovery(), cors.Default())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/state", handler.State)
		v1.GET("/report", handler.Report)
	}

	return r
}

// Serve runs the status server until the process exits. It is started
// in the background while an encode runs; errors are logged, never
// fatal to the encode itself.
func Serve(addr string, sup *encode.Supervisor, log logger.Logger) {
	gin.SetMode(gin.ReleaseMode)
	r := NewRouter(sup)
	log.Info("status API listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Error("status API: %v", err)
	}
}
