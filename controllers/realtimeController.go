package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/PraiseNight/realtime"
	"github.com/gin-gonic/gin"
)

const heartbeatInterval = 25 * time.Second

var changeHub *realtime.Hub

// SetChangeHub wires the hub that StreamChanges subscribes to.
func SetChangeHub(hub *realtime.Hub) {
	changeHub = hub
}

// StreamChanges sends the change events of one table as server-sent events
// until the client goes away.
func StreamChanges(c *gin.Context) {
	table := c.Param("table")
	if !realtime.IsTable(table) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown table", "details": table})
		return
	}

	if changeHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Change notifications are not available"})
		return
	}

	sub := changeHub.Subscribe(table)
	defer sub.Close()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ping", time.Now().Unix())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}
