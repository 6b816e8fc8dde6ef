package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
	"google.golang.org/genai"
)

// systemInstruction 要求模型把自由文本拆成结构化的排班操作列表
const systemInstruction = "You are an expert scheduling assistant. Your task is to parse the user's request " +
	"and extract all requested shift actions into a list of objects. " +
	"For a single request that specifies multiple days (e.g., 'Mon, Tue, Wed 9am-5pm'), " +
	"you must generate a separate object for each day with the same time. " +
	"Each object must contain the 'action', 'day', 'start_time', and 'end_time'. " +
	"Times must be in 12-hour format with am/pm (e.g., '9am', '2pm', '5pm'). " +
	"The day must be the full English weekday name (e.g., 'Monday'). " +
	"The 'action' must be 'add' (for add, schedule, create) or 'delete' (for delete, remove, cancel). " +
	"If any piece of information for a shift is missing or unclear, set the respective field to 'N/A'. " +
	"You must return the output in the requested JSON format containing the list of shifts."

// responseSchema 约束模型输出为 {"shifts": [{action, day, start_time, end_time}]}
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"shifts": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"action":     {Type: genai.TypeString},
					"day":        {Type: genai.TypeString},
					"start_time": {Type: genai.TypeString},
					"end_time":   {Type: genai.TypeString},
				},
				Required: []string{"action", "day", "start_time", "end_time"},
			},
		},
	},
	Required: []string{"shifts"},
}

// Extractor 调用 Gemini 把聊天消息抽取成候选排班操作。
// 抽取结果不可信，调用方必须逐条校验
type Extractor struct {
	cfg    *config.Config
	client *genai.Client
}

func New(ctx context.Context, cfg *config.Config) (*Extractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("无法创建 Gemini 客户端: %w", err)
	}

	return &Extractor{
		cfg:    cfg,
		client: client,
	}, nil
}

// Extract 返回消息中的候选排班操作。模型调用失败时重试一次，
// 仍失败则返回空列表，抽取失败不会让消息处理流程崩溃
func (e *Extractor) Extract(ctx context.Context, text string) []domain.ShiftCandidate {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		candidates, err := e.generate(ctx, text)
		if err == nil {
			return candidates
		}
		lastErr = err
	}

	slog.Error("抽取排班操作失败", "error", lastErr)
	return nil
}

func (e *Extractor) generate(ctx context.Context, text string) ([]domain.ShiftCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.Gemini.Timeout)*time.Second)
	defer cancel()

	resp, err := e.client.Models.GenerateContent(
		ctx,
		e.cfg.Gemini.Model,
		genai.Text(text),
		&genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](0),
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    responseSchema,
		},
	)
	if err != nil {
		return nil, err
	}

	return decodeCandidates([]byte(resp.Text()))
}

func decodeCandidates(data []byte) ([]domain.ShiftCandidate, error) {
	var payload struct {
		Shifts []domain.ShiftCandidate `json:"shifts"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("无法解析模型输出: %w", err)
	}

	return payload.Shifts, nil
}
