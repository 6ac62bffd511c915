package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hospitalshuttle/shuttle-booking/config"
	"github.com/hospitalshuttle/shuttle-booking/models"
	"github.com/hospitalshuttle/shuttle-booking/utils"
	"gorm.io/gorm"
)

// LineService talks to the LINE Login and Messaging APIs and keeps the linked
// identity and notification audit tables.
type LineService struct {
	http *resty.Client
	cfg  *config.Config

	// overridable for tests
	AuthBase string
	APIBase  string
}

func NewLineService(cfg *config.Config) *LineService {
	return &LineService{
		http:     resty.New().SetTimeout(10 * time.Second),
		cfg:      cfg,
		AuthBase: "https://access.line.me",
		APIBase:  "https://api.line.me",
	}
}

// LoginState is the CSRF state round-tripped through the LINE OAuth redirect.
type LoginState struct {
	UserID    uint  `json:"userId"`
	Timestamp int64 `json:"timestamp"`
}

func EncodeLoginState(userID uint) string {
	raw, _ := json.Marshal(LoginState{UserID: userID, Timestamp: time.Now().UnixMilli()})
	return base64.StdEncoding.EncodeToString(raw)
}

func DecodeLoginState(state string) (*LoginState, error) {
	raw, err := base64.StdEncoding.DecodeString(state)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed state parameter", utils.ErrValidation)
	}
	var s LoginState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: malformed state parameter", utils.ErrValidation)
	}
	return &s, nil
}

// LoginURL builds the LINE Login authorize URL carrying the encoded state.
func (s *LineService) LoginURL(state string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", s.cfg.LineLoginChannelID)
	params.Set("redirect_uri", s.cfg.BaseURL+"/api/line/login-callback")
	params.Set("state", state)
	params.Set("scope", "profile openid")
	return s.AuthBase + "/oauth2/v2.1/authorize?" + params.Encode()
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ExchangeCode trades an authorization code for tokens.
func (s *LineService) ExchangeCode(code string) (*TokenResponse, error) {
	var token TokenResponse
	resp, err := s.http.R().
		SetFormData(map[string]string{
			"grant_type":    "authorization_code",
			"code":          code,
			"redirect_uri":  s.cfg.BaseURL + "/api/line/login-callback",
			"client_id":     s.cfg.LineLoginChannelID,
			"client_secret": s.cfg.LineLoginChannelSecret,
		}).
		SetResult(&token).
		Post(s.APIBase + "/oauth2/v2.1/token")
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", utils.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: token exchange returned %s", utils.ErrUpstream, resp.Status())
	}
	return &token, nil
}

type LineProfile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

// GetProfile fetches the LINE profile behind an access token.
func (s *LineService) GetProfile(accessToken string) (*LineProfile, error) {
	var profile LineProfile
	resp, err := s.http.R().
		SetAuthToken(accessToken).
		SetResult(&profile).
		Get(s.APIBase + "/v2/profile")
	if err != nil {
		return nil, fmt.Errorf("%w: profile fetch: %v", utils.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: profile fetch returned %s", utils.ErrUpstream, resp.Status())
	}
	return &profile, nil
}

// SaveConnection upserts a user↔LINE link. An existing row for either side of
// the pair is refreshed and reactivated rather than duplicated.
func (s *LineService) SaveConnection(dbc *gorm.DB, userID uint, profile *LineProfile, token *TokenResponse) error {
	return dbc.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		var existing models.LineConnection
		res := tx.Where("user_id = ? AND line_user_id = ?", userID, profile.UserID).
			Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			return tx.Model(&existing).Updates(map[string]interface{}{
				"line_display_name": profile.DisplayName,
				"line_picture_url":  profile.PictureURL,
				"access_token":      token.AccessToken,
				"refresh_token":     token.RefreshToken,
				"is_active":         true,
				"connected_at":      now,
				"last_used_at":      now,
			}).Error
		}

		return tx.Create(&models.LineConnection{
			UserID:          userID,
			LineUserID:      profile.UserID,
			LineDisplayName: profile.DisplayName,
			LinePictureURL:  profile.PictureURL,
			AccessToken:     token.AccessToken,
			RefreshToken:    token.RefreshToken,
			IsActive:        true,
			ConnectedAt:     now,
			LastUsedAt:      now,
		}).Error
	})
}

// GetConnections returns every active LINE link for the user.
func (s *LineService) GetConnections(dbc *gorm.DB, userID uint) ([]models.LineConnection, error) {
	var connections []models.LineConnection
	err := dbc.Where("user_id = ? AND is_active = ?", userID, true).Find(&connections).Error
	return connections, err
}

// Disconnect deactivates every LINE link for the user.
func (s *LineService) Disconnect(dbc *gorm.DB, userID uint) error {
	return dbc.Model(&models.LineConnection{}).
		Where("user_id = ?", userID).
		Update("is_active", false).Error
}

// SendMessage pushes a text message to a LINE user.
func (s *LineService) SendMessage(lineUserID, text string) error {
	resp, err := s.http.R().
		SetAuthToken(s.cfg.LineMessagingToken).
		SetBody(map[string]interface{}{
			"to": lineUserID,
			"messages": []map[string]string{
				{"type": "text", "text": text},
			},
		}).
		Post(s.APIBase + "/v2/bot/message/push")
	if err != nil {
		return fmt.Errorf("%w: push message: %v", utils.ErrUpstream, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: push message returned %s", utils.ErrUpstream, resp.Status())
	}
	return nil
}

func notificationMessage(kind models.NotificationKind, a *models.Appointment) string {
	date := a.AppointmentDate.Format("02/01/2006")
	switch kind {
	case models.NotificationApproved:
		return fmt.Sprintf("✅ Your booking has been approved!\n\n📅 Date: %s\n🕐 Time: %s\n🏥 Hospital: %s\n📍 Address: %s %s %s",
			date, a.AppointmentTime, a.Hospital, a.Province, a.District, a.Subdistrict)
	case models.NotificationRejected:
		return fmt.Sprintf("❌ Your booking was rejected\n\n📅 Date: %s\n🕐 Time: %s\n🏥 Hospital: %s\n\nPlease contact staff for details.",
			date, a.AppointmentTime, a.Hospital)
	case models.NotificationCancelled:
		return fmt.Sprintf("🚫 Your booking was cancelled\n\n📅 Date: %s\n🕐 Time: %s\n🏥 Hospital: %s",
			date, a.AppointmentTime, a.Hospital)
	}
	return ""
}

// SendAppointmentNotification notifies every linked LINE identity of a booking
// event, recording one audit row per attempt. One identity failing never
// blocks the others, and nothing here propagates to the caller: the state
// change that triggered the notification has already committed. Returns the
// number of successful deliveries.
func (s *LineService) SendAppointmentNotification(dbc *gorm.DB, userID, appointmentID uint, kind models.NotificationKind) int {
	if !kind.Valid() {
		log.Printf("LINE notify: unknown notification kind %q", kind)
		return 0
	}

	connections, err := s.GetConnections(dbc, userID)
	if err != nil {
		log.Printf("LINE notify: loading connections for user %d: %v", userID, err)
		return 0
	}
	if len(connections) == 0 {
		return 0
	}

	var a models.Appointment
	res := dbc.Limit(1).Find(&a, appointmentID)
	if res.Error != nil || res.RowsAffected == 0 {
		log.Printf("LINE notify: appointment %d not found", appointmentID)
		return 0
	}

	message := notificationMessage(kind, &a)
	delivered := 0
	for _, conn := range connections {
		audit := models.LineNotification{
			UserID:           userID,
			AppointmentID:    appointmentID,
			NotificationType: kind,
			Message:          message,
			Status:           models.NotificationSent,
		}
		if sendErr := s.SendMessage(conn.LineUserID, message); sendErr != nil {
			log.Printf("LINE notify: delivery to %s failed: %v", conn.LineUserID, sendErr)
			audit.Status = models.NotificationFailed
			audit.ErrorMessage = sendErr.Error()
		} else {
			delivered++
		}
		if auditErr := dbc.Create(&audit).Error; auditErr != nil {
			log.Printf("LINE notify: recording audit row: %v", auditErr)
		}
	}
	return delivered
}
