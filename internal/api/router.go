package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LJTian/NewsIngest/internal/scheduler"
	"github.com/LJTian/NewsIngest/internal/storage"
)

type Server struct {
	store *storage.Store
	sched *scheduler.Scheduler
}

func NewServer(store *storage.Store, sched *scheduler.Scheduler) *Server {
	return &Server{store: store, sched: sched}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/articles", s.listArticles)
		v1.GET("/stats", s.stats)
		v1.POST("/ingest", s.ingest)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listArticles(c *gin.Context) {
	source := c.Query("source")
	topic := c.Query("topic")

	limitStr := c.DefaultQuery("limit", "100")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 100
	}

	items, err := s.store.ListRecent(source, topic, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    items,
	})
}

func (s *Server) stats(c *gin.Context) {
	counts, err := s.store.CountBySource()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    counts,
	})
}

// ingest 手动触发一轮采集，同步返回本轮统计
func (s *Server) ingest(c *gin.Context) {
	stats := s.sched.RunOnce()
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    stats,
	})
}
