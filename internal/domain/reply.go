package domain

// ReplyQueue 是 API 和 reply worker 共用的 RabbitMQ 队列名
const ReplyQueue = "reply_queue"

// ReplyMessage 是 API 发布到回复队列、由 reply worker 消费的消息
type ReplyMessage struct {
	RecipientID string `json:"recipientID"`
	Text        string `json:"text"`
}
