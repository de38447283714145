package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultFCMEndpoint = "https://fcm.googleapis.com/fcm/send"

type FCMConfig struct {
	ServerKey string
	Endpoint  string
}

func LoadFCMConfigFromEnv() (FCMConfig, error) {
	cfg := FCMConfig{
		ServerKey: strings.TrimSpace(os.Getenv("FCM_SERVER_KEY")),
		Endpoint:  strings.TrimSpace(os.Getenv("FCM_ENDPOINT")),
	}
	if cfg.ServerKey == "" {
		return FCMConfig{}, errors.New("missing required FCM env: FCM_SERVER_KEY")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultFCMEndpoint
	}
	return cfg, nil
}

// FCMSender posts pushes to the FCM HTTP endpoint with server-key auth.
type FCMSender struct {
	cfg    FCMConfig
	client *http.Client
}

func NewFCMSender(cfg FCMConfig) *FCMSender {
	return &FCMSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *FCMSender) Send(ctx context.Context, push Push) error {
	body, err := json.Marshal(push)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.cfg.ServerKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fcm send: status %d", resp.StatusCode)
	}
	return nil
}
