package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
)

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	day := chi.URLParam(r, "day")

	record, outcome, err := h.shifts.Read(r.Context(), name, day)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	switch outcome {
	case "":
		// 查询成功，record 为 nil 表示当天没有班次
	case domain.OutcomeInvalidName:
		h.errorResponse(w, r, "员工不存在")
		return
	case domain.OutcomeAmbiguousName:
		h.errorResponse(w, r, "员工姓名匹配到多行")
		return
	case domain.OutcomeInvalidDay:
		h.errorResponse(w, r, "无效的工作日")
		return
	default:
		h.errorResponse(w, r, "查询班次失败")
		return
	}

	if record == nil {
		h.successResponse(w, r, "当天没有班次", nil)
		return
	}

	h.successResponse(w, r, "获取班次成功", record)
}
