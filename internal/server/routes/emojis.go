package routes

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/emoji-hub/emoji-hub/internal/cache"
	"github.com/emoji-hub/emoji-hub/internal/ingest"
	"github.com/emoji-hub/emoji-hub/internal/server"
	"github.com/emoji-hub/emoji-hub/internal/version"
)

// RegisterEmojiRoutes 挂载消息摄取入口、显式批量入口与 /-/status 诊断接口。
func RegisterEmojiRoutes(app *fiber.App, manager *cache.Manager, logger *logrus.Logger) {
	if app == nil || manager == nil {
		return
	}

	app.Post("/v1/messages", handleMessage(manager, logger))
	app.Post("/v1/emojis", handleBatch(manager, logger))
	app.Get("/-/status", handleStatus(manager))
}

type messagePayload struct {
	Content   string `json:"content"`
	GuildName string `json:"guild_name"`
}

type emojiPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GuildName string `json:"guild_name"`
}

type batchPayload struct {
	Emojis []emojiPayload `json:"emojis"`
}

// refPayload 是消息入口回显的表情引用，方便调用方核对提取结果。
type refPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func encodeRefs(refs []cache.AssetRef) []refPayload {
	result := make([]refPayload, 0, len(refs))
	for _, ref := range refs {
		result = append(result, refPayload{ID: ref.ID, Name: ref.Name})
	}
	return result
}

func handleMessage(manager *cache.Manager, logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		var payload messagePayload
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
		}

		// 私聊等无集合场景：确认收到但不做任何缓存决策。
		if strings.TrimSpace(payload.GuildName) == "" {
			return c.JSON(fiber.Map{"newly_cached": 0, "refs": []refPayload{}, "skipped": "no_collection"})
		}

		refs := ingest.Extract(payload.Content, payload.GuildName)
		cached := manager.CacheAll(c.Context(), refs)

		if logger != nil && len(refs) > 0 {
			logger.WithFields(logrus.Fields{
				"action":       "ingest_message",
				"request_id":   server.RequestID(c),
				"collection":   payload.GuildName,
				"extracted":    len(refs),
				"newly_cached": cached,
			}).Info("消息表情已处理")
		}

		return c.JSON(fiber.Map{"newly_cached": cached, "refs": encodeRefs(refs)})
	}
}

func handleBatch(manager *cache.Manager, logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		var payload batchPayload
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
		}
		if len(payload.Emojis) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "emojis_required"})
		}

		refs := make([]cache.AssetRef, 0, len(payload.Emojis))
		for _, emoji := range payload.Emojis {
			if strings.TrimSpace(emoji.GuildName) == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id_and_guild_required"})
			}
			// ID 直接参与文件名拼接，非数字一律在入口拒绝。
			if !cache.ValidID(emoji.ID) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_emoji_id"})
			}
			refs = append(refs, cache.AssetRef{ID: emoji.ID, Name: emoji.Name, Collection: emoji.GuildName})
		}

		cached := manager.CacheAll(c.Context(), refs)

		if logger != nil {
			logger.WithFields(logrus.Fields{
				"action":       "cache_batch",
				"request_id":   server.RequestID(c),
				"batch_size":   len(refs),
				"newly_cached": cached,
			}).Info("批量缓存完成")
		}

		return c.JSON(fiber.Map{"newly_cached": cached})
	}
}

func handleStatus(manager *cache.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"tracked":    manager.TrackedCount(),
			"root":       manager.Root(),
			"emoji_size": manager.Size(),
			"version":    version.Full(),
		})
	}
}
