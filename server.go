package main

import (
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// joinGrace is how long a joined player may wait before opening its socket
const joinGrace = 15 * time.Second

// truncateName cuts a display name to maxNameLen characters
func truncateName(name string) string {
	if utf8.RuneCountInString(name) <= maxNameLen {
		return name
	}
	return string([]rune(name)[:maxNameLen])
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// Server holds the HTTP handlers' dependencies
type Server struct {
	hub    *Hub
	game   *Game
	tokens *TokenIssuer
	cfg    Config
	log    *zap.Logger
}

// NewRouter builds the HTTP routes: the join handshake, the socket upgrade,
// a health probe and the static client.
func NewRouter(hub *Hub, tokens *TokenIssuer, cfg Config, log *zap.Logger) *gin.Engine {
	s := &Server{hub: hub, game: hub.game, tokens: tokens, cfg: cfg, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.POST("/join", s.handleJoin)
	r.GET("/ws", s.handleWebSocket)
	r.GET("/healthz", s.handleHealth)

	clientDir := cfg.Server.ClientDir
	fs := http.FileServer(http.Dir(clientDir))
	r.NoRoute(func(c *gin.Context) {
		// no-cache so browsers always revalidate
		c.Header("Cache-Control", "no-cache")
		if c.Request.URL.Path == "/" {
			c.File(filepath.Join(clientDir, "index.html"))
			return
		}
		fs.ServeHTTP(c.Writer, c.Request)
	})
	return r
}

// requestLogger logs every request except the socket and health probes
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/ws" {
			return
		}
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()))
	}
}

func (s *Server) handleJoin(c *gin.Context) {
	ip := c.ClientIP()
	if !s.tokens.AllowJoin(ip) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many join attempts"})
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid join request"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = "Fighter"
	}
	req.Name = truncateName(req.Name)
	if def, ok := s.game.classes.Get(ClassType(req.ClassType)); ok && def.IsBot {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class is reserved for bots"})
		return
	}

	p, info, err := s.game.Join(req)
	if errors.Is(err, ErrGameFull) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game is full"})
		return
	} else if err != nil {
		s.log.Error("join failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := s.tokens.Issue(p.ID)
	if err != nil {
		s.log.Error("issue token", zap.Error(err))
		s.game.RemovePlayer(p.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	id := p.ID
	time.AfterFunc(joinGrace, func() {
		if !s.hub.Connected(id) && s.game.HasPlayer(id) {
			s.log.Info("joined player never connected, removing", zap.Int("player", int(id)))
			s.game.RemovePlayer(id)
		}
	})

	c.JSON(http.StatusOK, JoinResponse{ID: id, Token: token, Config: s.cfg.Arena, Info: info})
}

func (s *Server) handleWebSocket(c *gin.Context) {
	ip := c.ClientIP()
	if !s.hub.CanAccept(ip) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many connections"})
		return
	}

	id, err := s.tokens.Validate(c.Query("token"))
	if err != nil {
		s.log.Debug("rejecting socket", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if !s.game.HasPlayer(id) {
		c.JSON(http.StatusGone, gin.H{"error": "player is no longer in the game"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("upgrade error", zap.Error(err))
		return
	}
	s.hub.TrackConnect(ip)

	client := NewClient(s.hub, conn, id, ip)
	s.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"session": s.game.SessionID(),
		"players": s.game.PlayerCount(),
		"clients": s.hub.ClientCount(),
		"tick":    s.game.Tick(),
	})
}
