package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rainier-guide-be/internal/dto"
	"rainier-guide-be/internal/pkg/logger"
	"rainier-guide-be/internal/pkg/serverutils"
	"rainier-guide-be/internal/service"
	ws "rainier-guide-be/internal/websocket"
	"rainier-guide-be/pkg/ai/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	hub         *ws.Hub
	logger      logger.ILogger
}

func NewChatController(chatService service.IChatService, hub *ws.Hub, log logger.ILogger) IChatController {
	return &chatController{
		chatService: chatService,
		hub:         hub,
		logger:      log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/ask", c.Ask)
	h.Post("/stream", c.Stream)
	h.Get("/sessions/:id", c.Session)

	h.Use("/ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			sessionId := ctx.Query("session_id")
			if _, err := uuid.Parse(sessionId); err != nil {
				sessionId = uuid.NewString()
			}
			ctx.Locals("session_id", sessionId)
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	h.Get("/ws", websocket.New(c.serveSocket))
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Ask(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Question answered", res))
}

// Stream answers over server-sent events: one "progress" event per stage, the last one carrying the result.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fasthttp request context outlives the client, so a failed write cancels the run instead.
	runCtx, cancel := context.WithCancel(context.Background())
	sessionId, events := c.chatService.Stream(runCtx, &req)
	ctx.Set("X-Session-Id", sessionId)

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for ev := range events {
			if err := writeSSE(w, ev); err != nil {
				c.logger.Warn("ChatController", "SSE client went away", map[string]interface{}{"session_id": sessionId})
				return
			}
		}
	})
	return nil
}

func writeSSE(w *bufio.Writer, ev pipeline.ProgressEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	name := "progress"
	if ev.Terminal() {
		name = ev.Stage
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return w.Flush()
}

func (c *chatController) Session(ctx *fiber.Ctx) error {
	res, err := c.chatService.Session(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session", res))
}

type socketQuestion struct {
	Question    string `json:"question"`
	VisitorName string `json:"visitor_name,omitempty"`
}

func (c *chatController) serveSocket(conn *websocket.Conn) {
	sessionId, _ := conn.Locals("session_id").(string)
	ws.ServeWs(c.hub, conn, sessionId, c.handleSocketQuestion,
		ws.Message{Type: "session", Data: fiber.Map{"session_id": sessionId}})
}

// handleSocketQuestion streams the answer to every socket of the session.
func (c *chatController) handleSocketQuestion(sessionId string, payload []byte) {
	var q socketQuestion
	if err := json.Unmarshal(payload, &q); err != nil {
		// Plain text frames are questions too.
		q.Question = strings.TrimSpace(string(payload))
	}
	req := &dto.AskRequest{Question: q.Question, SessionId: sessionId, VisitorName: q.VisitorName}
	if err := serverutils.ValidateRequest(*req); err != nil {
		c.hub.Send(sessionId, ws.Message{Type: "error", Data: err.Error()})
		return
	}

	go func() {
		_, events := c.chatService.Stream(context.Background(), req)
		for ev := range events {
			c.hub.Send(sessionId, ws.Message{Type: "progress", Data: ev})
		}
	}()
}
