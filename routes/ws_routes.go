package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	hub "github.com/mwangikelvin/referral_bridge/websocket"
)

func WebsocketRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/:userId", websocket.New(func(conn *websocket.Conn) {
		userID, err := uuid.Parse(conn.Params("userId"))
		if err != nil {
			conn.Close()
			return
		}

		client := &hub.Client{UserID: userID, Conn: conn}
		hub.Register <- client
		defer func() {
			hub.Unregister <- client
		}()

		// The server only pushes; drain reads until the peer goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
