package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
)

const fallbackName = "there"

// Client 封装 Messenger Graph API 的调用
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// Send 把文本回复发给指定用户，失败时返回错误，由调用方决定如何处理
func (c *Client) Send(ctx context.Context, recipientID string, text string) error {
	payload := struct {
		Recipient struct {
			ID string `json:"id"`
		} `json:"recipient"`
		Message struct {
			Text string `json:"text"`
		} `json:"message"`
	}{}
	payload.Recipient.ID = recipientID
	payload.Message.Text = text

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Messenger.SendTimeout)*time.Second)
	defer cancel()

	endpoint := fmt.Sprintf("%s/me/messages?access_token=%s", c.cfg.Messenger.APIBaseURL, url.QueryEscape(c.cfg.Messenger.AccessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("发送消息失败: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	return nil
}

// FetchFirstName 从 Graph API 查询用户资料中的名字
func (c *Client) FetchFirstName(ctx context.Context, senderID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.Messenger.ProfileTimeout)*time.Second)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s?fields=first_name&access_token=%s",
		c.cfg.Messenger.APIBaseURL, url.PathEscape(senderID), url.QueryEscape(c.cfg.Messenger.AccessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var profile struct {
		FirstName string `json:"first_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", err
	}
	if profile.FirstName == "" {
		return fallbackName, nil
	}

	return profile.FirstName, nil
}
