package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lox/whot/internal/game"
	"github.com/lox/whot/internal/leaderboard"
	"github.com/lox/whot/whot"
)

// PlayerHeader carries the acting player's identity on HTTP requests.
// Websocket clients pass it as the "player" query parameter instead.
const PlayerHeader = "X-Player-ID"

// VersionHeader reports the version of the returned room snapshot
const VersionHeader = "X-Room-Version"

type createRoomRequest struct {
	RoomName   string `json:"room_name"`
	MaxPlayers int    `json:"max_players"`
}

type playRequest struct {
	Card *whot.Card `json:"card"`
}

// API serves the room service over HTTP and websockets
type API struct {
	svc      *Service
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewRouter builds the gin engine for svc. An origins list containing "*"
// allows every origin.
func NewRouter(svc *Service, logger *log.Logger, origins []string) *gin.Engine {
	api := &API{
		svc:    svc,
		logger: logger.WithPrefix("http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(origins, r.Header.Get("Origin"))
			},
		},
	}

	r := gin.New()
	r.Use(gin.Recovery(), api.requestLogger())
	r.Use(cors.New(corsConfig(origins)))

	r.GET("/health", api.handleHealth)
	r.GET("/leaderboard", api.handleLeaderboard)

	rooms := r.Group("/rooms")
	{
		rooms.POST("", api.handleCreateRoom)
		rooms.GET("", api.handleListRooms)
		rooms.GET("/:id", api.handleGetRoom)
		rooms.POST("/:id/join", api.handleJoin)
		rooms.POST("/:id/leave", api.handleLeave)
		rooms.POST("/:id/start", api.handleStart)
		rooms.POST("/:id/play", api.handlePlay)
		rooms.POST("/:id/draw", api.handleDraw)
		rooms.GET("/:id/ws", api.handleWebSocket)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", PlayerHeader},
		ExposeHeaders: []string{"Content-Length", VersionHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}

func originAllowed(origins []string, origin string) bool {
	return origin == "" || len(origins) == 0 || slices.Contains(origins, "*") || slices.Contains(origins, origin)
}

func (a *API) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.logger.Debug("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"player", c.GetHeader(PlayerHeader),
			"duration", time.Since(start))
	}
}

func (a *API) fail(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	}
	c.AbortWithStatusJSON(status, ErrorData{Code: code, Message: err.Error()})
}

func identity(c *gin.Context) (string, error) {
	id := c.GetHeader(PlayerHeader)
	if id == "" {
		return "", ErrMissingIdentity
	}
	return id, nil
}

func (a *API) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (a *API) handleCreateRoom(c *gin.Context) {
	host, err := identity(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.fail(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	g, err := a.svc.CreateRoom(c.Request.Context(), host, req.RoomName, req.MaxPlayers)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Header(VersionHeader, strconv.FormatUint(g.Version, 10))
	c.JSON(http.StatusCreated, NewRoomView(g, host))
}

func (a *API) handleListRooms(c *gin.Context) {
	games, err := a.svc.ListOpen(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	rooms := make([]RoomSummary, 0, len(games))
	for _, g := range games {
		rooms = append(rooms, NewRoomSummary(g))
	}
	c.JSON(http.StatusOK, rooms)
}

// handleGetRoom supports versioned polling: ?since=N answers 304 until the
// room moves past version N.
func (a *API) handleGetRoom(c *gin.Context) {
	var since uint64
	if raw := c.Query("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			a.fail(c, fmt.Errorf("%w: since must be a version number", ErrInvalidRequest))
			return
		}
		since = v
	}

	g, err := a.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Header(VersionHeader, strconv.FormatUint(g.Version, 10))
	if since > 0 && g.Version <= since {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, NewRoomView(g, c.GetHeader(PlayerHeader)))
}

// roomAction is a service call made on behalf of the requesting player
type roomAction func(ctx context.Context, roomID, player string) (*game.Game, error)

func (a *API) act(c *gin.Context, fn roomAction) {
	player, err := identity(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	g, err := fn(c.Request.Context(), c.Param("id"), player)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Header(VersionHeader, strconv.FormatUint(g.Version, 10))
	c.JSON(http.StatusOK, NewRoomView(g, player))
}

func (a *API) handleJoin(c *gin.Context) {
	a.act(c, a.svc.Join)
}

func (a *API) handleLeave(c *gin.Context) {
	a.act(c, a.svc.Leave)
}

func (a *API) handleStart(c *gin.Context) {
	a.act(c, a.svc.Start)
}

func (a *API) handleDraw(c *gin.Context) {
	a.act(c, a.svc.Draw)
}

func (a *API) handlePlay(c *gin.Context) {
	if _, err := identity(c); err != nil {
		a.fail(c, err)
		return
	}
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.fail(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	if req.Card == nil || !req.Card.Valid() {
		a.fail(c, fmt.Errorf("%w: a valid card is required", ErrInvalidRequest))
		return
	}
	card := *req.Card
	a.act(c, func(ctx context.Context, roomID, player string) (*game.Game, error) {
		return a.svc.Play(ctx, roomID, player, card)
	})
}

func (a *API) handleLeaderboard(c *gin.Context) {
	entries, err := a.svc.Leaderboard(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (a *API) handleWebSocket(c *gin.Context) {
	player := c.Query("player")
	if player == "" {
		player = c.GetHeader(PlayerHeader)
	}
	if player == "" {
		a.fail(c, ErrMissingIdentity)
		return
	}
	roomID := c.Param("id")
	if _, err := a.svc.Get(c.Request.Context(), roomID); err != nil {
		a.fail(c, err)
		return
	}

	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		a.logger.Warn("Failed to upgrade connection", "error", err)
		return
	}
	client := NewConnection(conn, a.svc, roomID, player, a.logger)
	if err := client.Start(); err != nil && !errors.Is(err, ErrConnectionClosed) {
		a.logger.Warn("Failed to start connection", "room", roomID, "player", player, "error", err)
	}
}
