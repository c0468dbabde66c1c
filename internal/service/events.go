package service

import (
	"encoding/json"
	"log"

	"go-marketplace-toko/internal/ws"
)

// broadcast encodes payload and hands it to hub; nil hub is a no-op.
func broadcast(hub ws.Broadcaster, payload map[string]interface{}) {
	if hub == nil {
		return
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Warning: failed to encode event %v: %v", payload["action"], err)
		return
	}
	hub.Publish(msg)
}

func catalogEvent(action string, caller Caller, data map[string]interface{}, message string) map[string]interface{} {
	return map[string]interface{}{
		"type":   "catalog_update",
		"action": action,
		"data":   data,
		"user": map[string]interface{}{
			"id":   caller.UserID,
			"name": caller.Name,
		},
		"message": message,
	}
}
