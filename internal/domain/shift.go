package domain

// Outcome 是排班操作的业务结果码，沿用旧版机器人的字符串编码
type Outcome string

const (
	OutcomeUpdateSuccess   Outcome = "UPDATE_SUCCESS"
	OutcomeDeleteSuccess   Outcome = "DELETE_SUCCESS"
	OutcomeInvalidName     Outcome = "ERROR_INVALID_NAME"
	OutcomeAmbiguousName   Outcome = "ERROR_AMBIGUOUS_NAME"
	OutcomeInvalidDay      Outcome = "ERROR_INVALID_DAY"
	OutcomeInvalidTime     Outcome = "ERROR_INVALID_TIME"
	OutcomeEntryExists     Outcome = "ERROR_ENTRY_EXISTS"
	OutcomeDayLimitReached Outcome = "ERROR_DAY_LIMIT_REACHED"
	OutcomeInvalidAction   Outcome = "ERROR_INVALID_ACTION"
)

// Weekdays 是班表支持的五个工作日标签，顺序即表中列对的顺序
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// ShiftCandidate 是抽取服务给出的单个候选操作，字段内容不可信，
// 必须经过校验之后才能进入记录存储
type ShiftCandidate struct {
	Action    string `json:"action" validate:"required"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ShiftRecord 是某位员工在某一天已提交的班次
type ShiftRecord struct {
	Name      string `json:"name"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}
