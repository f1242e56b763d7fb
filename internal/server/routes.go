package server

import (
	"net/http"
	"time"

	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/custom"
	"github.com/danmuck/eoclient/internal/protocol/packets"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"version": "0.0.1",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		src := s.current()
		ready := false
		if src != nil {
			snap := src.Snapshot()
			ready = snap.MultiplierSet && !snap.Closed
		}
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ready": ready})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/debug/session", func(c *gin.Context) {
		src := s.current()
		if src == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no session"})
			return
		}
		c.JSON(http.StatusOK, src.Snapshot())
	})

	s.router.GET("/debug/packets", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"server":   idStrings(packets.ServerTable().IDs()),
			"client":   idStrings(packets.ClientTable().IDs()),
			"fallback": idStrings(custom.Fallback().IDs()),
		})
	})
}

func idStrings(ids []protocol.PacketID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
