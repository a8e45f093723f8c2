package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// defaultConfigs is what a fresh install serves from GET /api/config.
var defaultConfigs = []models.RemoteConfig{
	{Key: "status_color_pending", Value: "#ff9800", Type: "string"},
	{Key: "status_color_in_progress", Value: "#2196f3", Type: "string"},
	{Key: "status_color_cleaned", Value: "#4caf50", Type: "string"},
	{Key: "dark_mode_default", Value: "false", Type: "bool"},
	{Key: "report_statuses", Value: `["Pending","In Progress","Cleaned"]`, Type: "json"},
	{Key: "maintenance_mode", Value: "false", Type: "bool"},
	{Key: "announcement_message", Value: "", Type: "string"},
}

var configTypes = map[string]bool{"string": true, "bool": true, "int": true, "json": true}

type RemoteConfigHandler struct {
	db *gorm.DB
}

func NewRemoteConfigHandler(db *gorm.DB) *RemoteConfigHandler {
	return &RemoteConfigHandler{db: db}
}

// GetConfig returns every config key with its typed value (public).
func (h *RemoteConfigHandler) GetConfig(c *fiber.Ctx) error {
	result, err := h.load(c)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch configuration")
	}
	return c.JSON(result)
}

// SetConfigKey creates or updates a config key (admin only).
func (h *RemoteConfigHandler) SetConfigKey(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Key parameter is required")
	}

	var payload struct {
		Value string `json:"value"`
		Type  string `json:"type"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return badBody(c)
	}
	if payload.Type == "" {
		payload.Type = "string"
	}
	if !configTypes[payload.Type] {
		return errorJSON(c, fiber.StatusBadRequest, "Type must be one of string, bool, int, json")
	}
	if _, err := typedValue(payload.Type, payload.Value); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Value does not match type "+payload.Type)
	}

	db := h.db.WithContext(c.UserContext())
	var config models.RemoteConfig
	err := db.Where("key = ?", key).First(&config).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		config = models.RemoteConfig{ID: uuid.New(), Key: key, Value: payload.Value, Type: payload.Type}
		if err := db.Create(&config).Error; err != nil {
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to create config")
		}
	case err != nil:
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to query config")
	default:
		config.Value = payload.Value
		config.Type = payload.Type
		if err := db.Save(&config).Error; err != nil {
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to update config")
		}
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Config updated successfully",
		"config": fiber.Map{
			"key":   config.Key,
			"value": config.Value,
			"type":  config.Type,
		},
	})
}

// DeleteConfigKey removes a config key (admin only).
func (h *RemoteConfigHandler) DeleteConfigKey(c *fiber.Ctx) error {
	result := h.db.WithContext(c.UserContext()).Where("key = ?", c.Params("key")).Delete(&models.RemoteConfig{})
	if result.Error != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete config")
	}
	if result.RowsAffected == 0 {
		return errorJSON(c, fiber.StatusNotFound, "Config not found")
	}
	return c.JSON(fiber.Map{"error": false, "message": "Config deleted successfully"})
}

// SeedDefaults inserts any default key that does not exist yet. Existing
// values are left alone.
func (h *RemoteConfigHandler) SeedDefaults() error {
	for _, def := range defaultConfigs {
		var count int64
		if err := h.db.Model(&models.RemoteConfig{}).Where("key = ?", def.Key).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		cfg := def
		cfg.ID = uuid.New()
		if err := h.db.Create(&cfg).Error; err != nil {
			return err
		}
	}
	return nil
}

func (h *RemoteConfigHandler) load(c *fiber.Ctx) (map[string]interface{}, error) {
	var configs []models.RemoteConfig
	if err := h.db.WithContext(c.UserContext()).Find(&configs).Error; err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(configs))
	for _, cfg := range configs {
		value, err := typedValue(cfg.Type, cfg.Value)
		if err != nil {
			value = cfg.Value
		}
		result[cfg.Key] = value
	}
	return result, nil
}

func typedValue(typ, raw string) (interface{}, error) {
	switch typ {
	case "bool":
		return strconv.ParseBool(raw)
	case "int":
		return strconv.Atoi(raw)
	case "json":
		var v interface{}
		err := json.Unmarshal([]byte(raw), &v)
		return v, err
	default:
		return raw, nil
	}
}
