package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID uint, buffer int) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan []byte, buffer),
		userID: userID,
		rooms:  make(map[string]bool),
	}
}

func TestHubBroadcastToRoom(t *testing.T) {
	hub := NewHub()
	member := newTestClient(hub, 1, 4)
	outsider := newTestClient(hub, 2, 4)

	hub.join("property-7", member)
	hub.join("property-8", outsider)

	hub.SendRoomMessage("property-7", "漏水已处理", 1)

	require.Len(t, member.send, 1)
	assert.Empty(t, outsider.send)

	var event Event
	require.NoError(t, json.Unmarshal(<-member.send, &event))
	assert.Equal(t, "send_message", event.Type)
	assert.Equal(t, "property-7", event.Room)
	assert.Equal(t, uint(1), event.UserID)
	assert.Equal(t, "漏水已处理", event.Data)
}

func TestHubMaintenanceUpdateGoesToGlobalRoom(t *testing.T) {
	hub := NewHub()
	first := newTestClient(hub, 1, 4)
	second := newTestClient(hub, 2, 4)

	hub.join(globalRoom, first)
	hub.join(globalRoom, second)

	hub.SendMaintenanceUpdate(map[string]interface{}{"ticket_id": "TKT-TEST0001"}, 9)

	require.Len(t, first.send, 1)
	require.Len(t, second.send, 1)

	var event Event
	require.NoError(t, json.Unmarshal(<-first.send, &event))
	assert.Equal(t, "maintenance_update", event.Type)
	assert.Equal(t, uint(9), event.UserID)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(hub, 1, 1)
	hub.join(globalRoom, slow)

	// 第一条填满缓冲，第二条触发断开
	hub.SendMaintenanceUpdate("first", 0)
	hub.SendMaintenanceUpdate("second", 0)

	assert.Empty(t, hub.rooms[globalRoom])

	// 通道已被关闭
	<-slow.send
	_, open := <-slow.send
	assert.False(t, open)
}

func TestHubDropsSlowClientFromAllRooms(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(hub, 1, 1)
	healthy := newTestClient(hub, 2, 4)

	hub.join(globalRoom, slow)
	hub.join("property-7", slow)
	hub.join(globalRoom, healthy)

	// 房间广播填满缓冲并断开慢客户端
	hub.SendRoomMessage("property-7", "first", 0)
	hub.SendRoomMessage("property-7", "second", 0)

	// 慢客户端必须同时退出全局房间，后续全局广播不能再写入已关闭的通道
	assert.NotContains(t, hub.rooms[globalRoom], slow)
	hub.SendMaintenanceUpdate("after-drop", 0)

	require.Len(t, healthy.send, 1)
	_, open := <-slow.send
	assert.True(t, open) // 缓冲里的第一条仍可读出
	_, open = <-slow.send
	assert.False(t, open)
}

func TestHubRemoveClearsEmptyRooms(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, 1, 4)

	hub.join(globalRoom, client)
	hub.join("property-7", client)
	require.Len(t, hub.rooms, 2)

	hub.remove(client)
	assert.Empty(t, hub.rooms)

	// 移除后广播不再送达
	hub.SendRoomMessage("property-7", "无人接收", 1)
	assert.Empty(t, client.send)
}
