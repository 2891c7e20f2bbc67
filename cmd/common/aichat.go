package common

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/noteline/noteline/pkg/ai"
)

type successEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func decodeData(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	var envelope successEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return json.Unmarshal(envelope.Data, out)
}

// SendChatMessage sends one chat message using the REST API.
func (c *Client) SendChatMessage(req *ai.SendRequest) (*ai.SendResult, error) {
	resp, err := c.Post("/api/ai-chat/send/", req)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	if err := CheckResponse(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var result ai.SendResult
	if err := decodeData(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListChatSessions lists the caller's sessions using the REST API.
func (c *Client) ListChatSessions() ([]ai.SessionSummary, error) {
	resp, err := c.Get("/api/ai-chat/sessions/")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if err := CheckResponse(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var sessions []ai.SessionSummary
	if err := decodeData(resp, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetChatSession fetches one session with its messages using the REST API.
func (c *Client) GetChatSession(uuid string) (*ai.SessionDetail, error) {
	resp, err := c.Get("/api/ai-chat/sessions/" + uuid + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if err := CheckResponse(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var detail ai.SessionDetail
	if err := decodeData(resp, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetAISettings fetches the caller's AI settings using the REST API.
func (c *Client) GetAISettings() (*ai.SettingsSnapshot, error) {
	resp, err := c.Get("/api/ai-chat/settings/")
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if err := CheckResponse(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var snapshot ai.SettingsSnapshot
	if err := decodeData(resp, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// UpdateAISettings updates the caller's AI settings using the REST API.
func (c *Client) UpdateAISettings(req *ai.UpdateSettingsRequest) error {
	resp, err := c.Post("/api/ai-chat/settings/update/", req)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	defer resp.Body.Close()
	return CheckResponse(resp, http.StatusOK)
}
