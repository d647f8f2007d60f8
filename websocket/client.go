package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"propman-http-service/config"
	"propman-http-service/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// 向对端写消息的最长等待时间
	writeWait = 10 * time.Second
	// 等待pong响应的最长时间
	pongWait = 60 * time.Second
	// ping周期，必须小于pongWait
	pingPeriod = (pongWait * 9) / 10
	// 入站消息大小上限
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域由网关层控制，这里不做Origin校验
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client 表示一个已认证的websocket连接
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
	rooms  map[string]bool
}

// inboundEvent 客户端上行消息
type inboundEvent struct {
	Type string      `json:"type"`
	Room string      `json:"room,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// readPump 从连接读取消息并分发到对应房间
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Warning("websocket连接异常关闭: %v", err)
			}
			return
		}

		var event inboundEvent
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}

		switch event.Type {
		case "join_room":
			if event.Room != "" {
				c.hub.join(event.Room, c)
			}
		case "send_message":
			if event.Room != "" && c.rooms[event.Room] {
				c.hub.SendRoomMessage(event.Room, event.Data, c.userID)
			}
		}
	}
}

// writePump 将出站消息写入连接并定期发送ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS 返回websocket升级处理函数，通过token查询参数完成认证
func ServeWS(hub *Hub, jwtService services.InterfaceJWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		claims, err := jwtService.ExtractClaims(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "令牌无效",
				"data":    nil,
			})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			config.Error("websocket升级失败: %v", err)
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, 64),
			userID: claims.UserID,
			rooms:  make(map[string]bool),
		}
		hub.join(globalRoom, client)

		go client.writePump()
		go client.readPump()
	}
}
