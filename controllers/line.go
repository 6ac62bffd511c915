package controllers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/db"
	"github.com/hospitalshuttle/shuttle-booking/models"
	"github.com/hospitalshuttle/shuttle-booking/services"
	"github.com/hospitalshuttle/shuttle-booking/utils"
)

// GetLineLoginURL returns the LINE Login authorize URL for the user. The
// state parameter is base64 JSON {userId, timestamp} and must round-trip
// through the OAuth redirect unchanged.
func GetLineLoginURL(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	state := services.EncodeLoginState(uint(userID))
	return c.JSON(fiber.Map{
		"success":  true,
		"loginUrl": line.LoginURL(state),
		"state":    state,
	})
}

func completeLineLogin(code, state string) (*services.LoginState, error) {
	stateData, err := services.DecodeLoginState(state)
	if err != nil {
		return nil, err
	}
	token, err := line.ExchangeCode(code)
	if err != nil {
		return nil, err
	}
	profile, err := line.GetProfile(token.AccessToken)
	if err != nil {
		return nil, err
	}
	if err := line.SaveConnection(db.DB, stateData.UserID, profile, token); err != nil {
		return nil, err
	}
	return stateData, nil
}

// LineLoginCallback handles the browser redirect leg of LINE Login.
func LineLoginCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing code or state")
	}

	if _, err := services.DecodeLoginState(state); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state parameter")
	}

	if _, err := completeLineLogin(code, state); err != nil {
		log.Printf("LINE login callback failed: %v", err)
		return c.Redirect(cfg.FrontendURL + "/line-callback?success=false")
	}
	return c.Redirect(cfg.FrontendURL + "/line-callback?success=true")
}

// LineLoginCallbackPost handles the same exchange for API clients.
func LineLoginCallbackPost(c *fiber.Ctx) error {
	type CallbackInput struct {
		Code  string `json:"code"`
		State string `json:"state"`
	}
	input := new(CallbackInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Code == "" || input.State == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing code or state",
		})
	}

	if _, err := completeLineLogin(input.Code, input.State); err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "LINE account linked",
	})
}

// GetLineStatus reports whether the user has an active LINE link.
func GetLineStatus(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	connections, err := line.GetConnections(db.DB, uint(userID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to check LINE status",
		})
	}
	if len(connections) == 0 {
		return c.JSON(fiber.Map{
			"success":   true,
			"connected": false,
		})
	}

	profiles := make([]fiber.Map, 0, len(connections))
	for _, conn := range connections {
		profiles = append(profiles, fiber.Map{
			"displayName": conn.LineDisplayName,
			"pictureUrl":  conn.LinePictureURL,
			"connectedAt": conn.ConnectedAt,
		})
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"connected": true,
		"profile":   profiles[0],
		"profiles":  profiles,
	})
}

// DisconnectLine deactivates all of a user's LINE links.
func DisconnectLine(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	if err := line.Disconnect(db.DB, uint(userID)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to disconnect LINE",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "LINE disconnected",
	})
}

// SendTestMessage pushes a test message to the user's first LINE link.
func SendTestMessage(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	type MessageInput struct {
		Message string `json:"message"`
	}
	input := new(MessageInput)
	_ = c.BodyParser(input)
	if input.Message == "" {
		input.Message = "Test message from Hospital Shuttle Booking"
	}

	connections, err := line.GetConnections(db.DB, uint(userID))
	if err != nil || len(connections) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "User has no LINE connection",
		})
	}

	if err := line.SendMessage(connections[0].LineUserID, input.Message); err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message sent",
	})
}

// GetLineNotifications returns the paginated delivery audit history.
func GetLineNotifications(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := db.DB.Model(&models.LineNotification{}).
		Where("user_id = ?", uint(userID)).
		Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch notifications",
		})
	}

	var notifications []models.LineNotification
	if err := db.DB.Where("user_id = ?", uint(userID)).
		Order("sent_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch notifications",
		})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"limit":         limit,
	})
}

// LineWebhook is dual-purpose: LINE Login callbacks posted here and Messaging
// API events. Text messages get an automatic acknowledgement.
func LineWebhook(c *fiber.Ctx) error {
	type webhookEvent struct {
		Type    string `json:"type"`
		Message struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"message"`
		Source struct {
			UserID string `json:"userId"`
		} `json:"source"`
	}
	type webhookBody struct {
		Code   string         `json:"code"`
		State  string         `json:"state"`
		Events []webhookEvent `json:"events"`
	}

	body := new(webhookBody)
	if err := c.BodyParser(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot parse webhook payload",
		})
	}

	switch {
	case body.Code != "" && body.State != "":
		if _, err := completeLineLogin(body.Code, body.State); err != nil {
			log.Printf("LINE webhook login callback failed: %v", err)
			return c.Redirect(cfg.FrontendURL + "/line-callback?success=false")
		}
		return c.Redirect(cfg.FrontendURL + "/line-callback?success=true")

	case len(body.Events) > 0:
		for _, event := range body.Events {
			if event.Type != "message" || event.Message.Type != "text" || event.Source.UserID == "" {
				continue
			}
			if err := line.SendMessage(event.Source.UserID, "Thanks for your message! Staff will reply shortly."); err != nil {
				log.Printf("LINE auto-reply failed: %v", err)
			}
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Webhook processed",
		})

	default:
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Unknown webhook type",
		})
	}
}

// LineWebhookCheck answers LINE's endpoint verification.
func LineWebhookCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "LINE webhook endpoint is working",
	})
}
