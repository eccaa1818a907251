package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"rsvp-whatsapp/internal/config"
	"rsvp-whatsapp/internal/models"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v20.0"

const addressParamLimit = 900

// CloudAPISender sends confirmations through the WhatsApp Cloud API using a
// pre-approved message template.
type CloudAPISender struct {
	phoneNumberID string
	accessToken   string
	templateName  string
	templateLang  string
	baseURL       string
	client        *http.Client
}

// NewCloudAPISender creates a Cloud API sender from the provider credentials
// in cfg. Credential presence is checked on Send so a misconfigured provider
// degrades to a failed confirmation instead of refusing to start.
func NewCloudAPISender(cfg *config.Config) *CloudAPISender {
	return &CloudAPISender{
		phoneNumberID: cfg.WhatsAppPhoneNumberID,
		accessToken:   cfg.WhatsAppAccessToken,
		templateName:  cfg.WhatsAppTemplateName,
		templateLang:  cfg.WhatsAppTemplateLang,
		baseURL:       defaultGraphBaseURL,
		client:        &http.Client{Timeout: 20 * time.Second},
	}
}

type templateParam struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type templateComponent struct {
	Type       string          `json:"type"`
	Parameters []templateParam `json:"parameters"`
}

type templateMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Template         struct {
		Name     string `json:"name"`
		Language struct {
			Code string `json:"code"`
		} `json:"language"`
		Components []templateComponent `json:"components"`
	} `json:"template"`
}

// templateParams maps a record onto the template's body slots. The order is
// positional and must match the approved message template exactly.
func templateParams(r models.RSVP) []templateParam {
	texts := []string{
		r.FullName,
		strconv.Itoa(r.AgeYears),
		truncateRunes(r.FullAddress, addressParamLimit),
		orDash(r.Education),
		orDash(r.Occupation),
		r.IsHost,
		r.AttendedBefore,
		orDash(r.Referral),
	}
	params := make([]templateParam, 0, len(texts))
	for _, t := range texts {
		params = append(params, templateParam{Type: "text", Text: t})
	}
	return params
}

func (s *CloudAPISender) Send(ctx context.Context, toE164 string, r models.RSVP) (*Result, error) {
	if s.phoneNumberID == "" || s.accessToken == "" || s.templateName == "" {
		return nil, fmt.Errorf("%w: cloud_api needs WHATSAPP_PHONE_NUMBER_ID, WHATSAPP_ACCESS_TOKEN and WHATSAPP_TEMPLATE_NAME", ErrMissingCredentials)
	}

	msg := templateMessage{MessagingProduct: "whatsapp", To: toE164, Type: "template"}
	msg.Template.Name = s.templateName
	msg.Template.Language.Code = s.templateLang
	msg.Template.Components = []templateComponent{{Type: "body", Parameters: templateParams(r)}}

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &DispatchError{Body: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, &DispatchError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	result := &Result{Status: StatusSent}
	if err := json.Unmarshal(respBody, &parsed); err == nil && len(parsed.Messages) > 0 {
		result.MessageID = parsed.Messages[0].ID
	}
	return result, nil
}
