// Package server is the HTTP shell: it owns transport framing and
// conversation identity, delegating every decision to the dialogue
// controller and the session store.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"faqbot/internal/service"
	"faqbot/internal/session"
)

// cookieMaxAge bounds how long a conversation identity lives client-side.
const cookieMaxAge = 7 * 24 * 60 * 60

// Server wires the dialogue controller and session store to HTTP routes.
type Server struct {
	controller *service.Controller
	sessions   session.Store
	cookieName string
	log        *slog.Logger
}

// New creates the HTTP server shell.
func New(controller *service.Controller, sessions session.Store, cookieName string, log *slog.Logger) *Server {
	if cookieName == "" {
		cookieName = "conversation_id"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{controller: controller, sessions: sessions, cookieName: cookieName, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.GET("/", s.handleIndex)
	router.GET("/health", s.handleHealth)
	router.POST("/ask", s.handleAsk)
	router.POST("/followup", s.handleFollowup)
	return router
}

// Run starts the HTTP server on addr, blocking until it stops.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

type askRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	// Tolerate a missing or malformed body: an empty query has a
	// defined terminal response, it is not a transport error.
	_ = c.ShouldBindJSON(&req)

	ctx := c.Request.Context()
	convID := s.conversationID(c)

	pending, err := s.sessions.Get(ctx, convID)
	if err != nil {
		s.log.Error("session read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}
	sess := service.Session{Pending: pending}

	payload, next, err := s.controller.Handle(ctx, sess, req.Query)
	if err != nil {
		s.log.Error("query handling failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "service error"})
		return
	}
	if err := s.persist(c, convID, sess, next); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}
	c.JSON(http.StatusOK, payload)
}

type followupRequest struct {
	Choice string `json:"choice"`
}

func (s *Server) handleFollowup(c *gin.Context) {
	var req followupRequest
	_ = c.ShouldBindJSON(&req)

	ctx := c.Request.Context()
	convID := s.conversationID(c)

	pending, err := s.sessions.Get(ctx, convID)
	if err != nil {
		s.log.Error("session read failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}
	sess := service.Session{Pending: pending}

	answer, next := s.controller.ResolveChoice(sess, req.Choice)
	if err := s.persist(c, convID, sess, next); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// persist applies the session transition produced by the controller,
// writing only when the state actually changed. An unchanged pending
// follow-up is not re-written; on the redis backend that would extend
// its TTL.
func (s *Server) persist(c *gin.Context, convID string, before, after service.Session) error {
	ctx := c.Request.Context()
	if before.Pending != nil && after.Pending != nil && *before.Pending == *after.Pending {
		return nil
	}
	switch {
	case after.Pending != nil:
		if err := s.sessions.Set(ctx, convID, *after.Pending); err != nil {
			s.log.Error("session write failed", "error", err)
			return err
		}
	case before.Pending != nil:
		if err := s.sessions.Delete(ctx, convID); err != nil {
			s.log.Error("session delete failed", "error", err)
			return err
		}
	}
	return nil
}

// conversationID returns the caller's conversation identity, minting a
// cookie on first contact.
func (s *Server) conversationID(c *gin.Context) string {
	if id, err := c.Cookie(s.cookieName); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(s.cookieName, id, cookieMaxAge, "/", "", false, true)
	return id
}
