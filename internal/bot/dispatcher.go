package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
)

// 回复给用户的文案，每种业务结果对应一行
var errorMessages = map[domain.Outcome]string{
	domain.OutcomeInvalidAction:   "The action you requested is invalid. Please specify 'add' or 'delete'.",
	domain.OutcomeInvalidName:     "I couldn't find your name in the system. Please contact an admin.",
	domain.OutcomeAmbiguousName:   "Your name matches more than one employee in the system. Please contact an admin.",
	domain.OutcomeInvalidDay:      "The day you provided is invalid. Please choose a weekday between Monday and Friday.",
	domain.OutcomeInvalidTime:     "The times you provided are invalid. Please use times between 9am and 6pm, and make sure the end time is after the start time.",
	domain.OutcomeEntryExists:     "You already have a shift scheduled for this day. Please request to update it if needed.",
	domain.OutcomeDayLimitReached: "Sorry, this day is already fully booked. Please choose another day.",
}

const (
	unknownErrorMessage = "An unknown error occurred. Please try again."
	fallbackMessage     = "I couldn't process your request. Please try again."
)

// Store 是调度器对记录存储的依赖
type Store interface {
	Create(ctx context.Context, name string, day string, startTime string, endTime string) (domain.Outcome, error)
	Delete(ctx context.Context, name string, day string) (domain.Outcome, error)
}

// Dispatcher 把候选排班操作逐条映射成记录存储调用，
// 并把业务结果翻译成发给用户的回复段落
type Dispatcher struct {
	store      Store
	validate   *validator.Validate
	translator ut.Translator
}

func NewDispatcher(store Store) (*Dispatcher, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Dispatcher{
		store:      store,
		validate:   validate,
		translator: trans,
	}, nil
}

// Dispatch 按顺序处理候选操作，每条操作产生一个段落，
// 空列表返回兜底的无法处理回复。无论发生什么，都恰好产生一条合并回复
func (d *Dispatcher) Dispatch(ctx context.Context, name string, candidates []domain.ShiftCandidate) string {
	if len(candidates) == 0 {
		return fallbackMessage
	}

	paragraphs := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		paragraphs = append(paragraphs, d.dispatchOne(ctx, name, candidate))
	}

	return strings.Join(paragraphs, "\n\n")
}

func (d *Dispatcher) dispatchOne(ctx context.Context, name string, candidate domain.ShiftCandidate) (reply string) {
	// 存储或校验层的意外失败不允许越过这道边界，统一转成通用错误回复
	defer func() {
		if p := recover(); p != nil {
			slog.Error("处理候选操作时发生 panic", "panic", p)
			reply = errorReply(domain.Outcome(""))
		}
	}()

	if err := d.validate.Struct(candidate); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			slog.Warn("候选操作缺少必要字段", "error", validationErrors[0].Translate(d.translator))
		}
		return errorReply(domain.OutcomeInvalidAction)
	}

	switch candidate.Action {
	case "add":
		outcome, err := d.store.Create(ctx, name, candidate.Day, candidate.StartTime, candidate.EndTime)
		if err != nil {
			slog.Error("登记班次失败", "name", name, "day", candidate.Day, "error", err)
			return errorReply(domain.Outcome(""))
		}
		if outcome == domain.OutcomeUpdateSuccess {
			return fmt.Sprintf("✅ All set, %s! Your shift has been scheduled:\n📅 Day: %s\n🕐 Start: %s\n🕑 End: %s",
				name, candidate.Day, candidate.StartTime, candidate.EndTime)
		}
		return errorReply(outcome)
	case "delete":
		outcome, err := d.store.Delete(ctx, name, candidate.Day)
		if err != nil {
			slog.Error("删除班次失败", "name", name, "day", candidate.Day, "error", err)
			return errorReply(domain.Outcome(""))
		}
		if outcome == domain.OutcomeDeleteSuccess {
			return fmt.Sprintf("✅ Done, %s! Your shift on %s has been removed.", name, candidate.Day)
		}
		return errorReply(outcome)
	default:
		return errorReply(domain.OutcomeInvalidAction)
	}
}

func errorReply(outcome domain.Outcome) string {
	msg, ok := errorMessages[outcome]
	if !ok {
		// 没有对应文案的结果码一律退回通用错误，绝不静默失败
		msg = unknownErrorMessage
	}
	return "❌ " + msg
}
