package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// VerifyWebhook 处理聊天平台的一次性订阅校验。
// 校验通过时必须把 challenge 以纯文本原样返回，不能包装成 JSON
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.config.Messenger.VerifyToken {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	http.Error(w, "Verification failed", http.StatusForbidden)
}

type webhookEvent struct {
	Entry []struct {
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// ReceiveWebhook 接收消息投递。无论载荷长什么样都立即返回 200，
// 否则平台会不断重试；真正的处理移交给后台 goroutine
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)

	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})

	if err != nil {
		slog.Error("读取 webhook 载荷失败", "error", err)
		return
	}

	senderID, text, ok := parseWebhookPayload(body)
	if !ok {
		// 没有发送者和文本就无从回复，记录之后丢弃
		slog.Warn("webhook 载荷中没有可处理的消息", "body", string(body))
		return
	}

	go h.processor.HandleMessage(context.Background(), senderID, text)
}

func parseWebhookPayload(data []byte) (senderID string, text string, ok bool) {
	var event webhookEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return "", "", false
	}

	if len(event.Entry) == 0 || len(event.Entry[0].Messaging) == 0 {
		return "", "", false
	}

	payload := event.Entry[0].Messaging[0]
	if payload.Sender.ID == "" || payload.Message.Text == "" {
		return "", "", false
	}

	return payload.Sender.ID, payload.Message.Text, true
}
