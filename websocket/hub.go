package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"propman-http-service/config"
)

// Event 表示一条实时消息
type Event struct {
	Type      string      `json:"type"` // join_room, send_message, maintenance_update
	Room      string      `json:"room,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	UserID    uint        `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub 维护按房间分组的客户端连接
type Hub struct {
	// 房间名 -> 该房间内的客户端集合
	rooms map[string]map[*Client]bool
	mutex sync.RWMutex
}

// NewHub 创建一个新的连接中心
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

// 全局房间，所有连接默认加入，用于工单等系统级广播
const globalRoom = "_global"

// 包级默认中心，连接与广播都走这里
var defaultHub = NewHub()

// GetHub 返回默认连接中心
func GetHub() *Hub {
	return defaultHub
}

// join 将客户端加入指定房间
func (h *Hub) join(room string, client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.rooms[room] = true
}

// remove 将客户端从所有房间移除
func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(client)
}

// removeLocked 持锁状态下将客户端从所有房间移除
func (h *Hub) removeLocked(client *Client) {
	for room := range client.rooms {
		if clients, ok := h.rooms[room]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// Broadcast 向指定房间内的所有客户端广播事件
func (h *Hub) Broadcast(room string, event Event) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		config.Error("序列化实时事件失败: %v", err)
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// 发送缓冲已满，视为慢客户端丢弃连接。
			// 必须先退出全部房间，否则后续广播会写入已关闭的通道
			h.removeLocked(client)
			close(client.send)
		}
	}
}

// SendMaintenanceUpdate 广播工单变更给所有连接
func (h *Hub) SendMaintenanceUpdate(ticket interface{}, userID uint) {
	h.Broadcast(globalRoom, Event{
		Type:      "maintenance_update",
		Data:      ticket,
		UserID:    userID,
		Timestamp: time.Now(),
	})
}

// SendRoomMessage 向房间转发一条用户消息
func (h *Hub) SendRoomMessage(room string, payload interface{}, userID uint) {
	h.Broadcast(room, Event{
		Type:      "send_message",
		Room:      room,
		Data:      payload,
		UserID:    userID,
		Timestamp: time.Now(),
	})
}
