package service

import (
	"classpulse/internal/model"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Action is one user intent fed to FlowService.Dispatch
type Action interface {
	ActionType() string
}

// Action type names as they appear on the wire
const (
	TypeSetPin             = "set_pin"
	TypeJoinByPin          = "join_by_pin"
	TypeScanJoin           = "scan_join"
	TypeSetAnswer          = "set_answer"
	TypeToggleChoice       = "toggle_choice"
	TypeSubmitAnswers      = "submit_answers"
	TypeCancelSession      = "cancel_session"
	TypeOpenHistory        = "open_history"
	TypeOpenHistoryEntry   = "open_history_entry"
	TypeEditLatest         = "edit_latest"
	TypeSaveEdits          = "save_edits"
	TypeCancelEdit         = "cancel_edit"
	TypeDeleteResponse     = "delete_response"
	TypeDeleteLatest       = "delete_latest"
	TypeGoHome             = "go_home"
	TypeOpenCourses        = "open_courses"
	TypeSignIn             = "sign_in"
	TypeSignOut            = "sign_out"
	TypeHelp               = "help"
	TypeSetDraftCourseName = "set_draft_course_name"
	TypeCreateCourse       = "create_course"
	TypeOpenCourse         = "open_course"
	TypeBackToCourses      = "back_to_courses"
	TypeCreateSession      = "create_session"
	TypeShareSession       = "share_session"
	TypeCloseShare         = "close_share"
	TypeOpenAnalytics      = "open_analytics"
	TypeCloseAnalytics     = "close_analytics"
	TypeOpenBuilder        = "open_builder"
	TypeCloseBuilder       = "close_builder"
	TypeSetBuilder         = "set_builder"
	TypePreviewQuestion    = "preview_question"
	TypeSaveQuestion       = "save_question"
	TypeViewAnswers        = "view_answers"
	TypeSummarizeAI        = "summarize_ai"
)

// Student actions

type SetPin struct {
	PIN string `json:"pin" validate:"max=16"`
}

// JoinByPin joins the session with PIN, or the stored PIN input when empty.
type JoinByPin struct {
	PIN string `json:"pin" validate:"max=16"`
}

type ScanJoin struct{}

// SetAnswer writes one answer into the edit buffer. Go callers may set
// Answer directly; otherwise Value is decoded against the question type.
type SetAnswer struct {
	QuestionID string          `json:"questionId" validate:"required"`
	Value      json.RawMessage `json:"value"`
	Answer     model.Answer    `json:"-"`
}

type ToggleChoice struct {
	QuestionID string `json:"questionId" validate:"required"`
	Choice     string `json:"choice" validate:"required"`
}

type SubmitAnswers struct{}
type CancelSession struct{}
type OpenHistory struct{}

type OpenHistoryEntry struct {
	EntryID string `json:"entryId" validate:"required"`
}

type EditLatest struct{}
type SaveEdits struct{}
type CancelEdit struct{}

type DeleteResponse struct {
	EntryID string `json:"entryId" validate:"required"`
}

type DeleteLatest struct{}
type GoHome struct{}
type OpenCourses struct{}
type SignIn struct{}
type SignOut struct{}
type Help struct{}

// Lecturer actions

type SetDraftCourseName struct {
	Name string `json:"name" validate:"max=200"`
}

type CreateCourse struct{}

type OpenCourse struct {
	CourseID string `json:"courseId" validate:"required"`
}

type BackToCourses struct{}

// CreateSession adds a session to CourseID, or to the active course when empty.
type CreateSession struct {
	CourseID string `json:"courseId"`
}

type ShareSession struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type CloseShare struct{}

type OpenAnalytics struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type CloseAnalytics struct{}

type OpenBuilder struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type CloseBuilder struct{}

type SetBuilder struct {
	Type    model.QuestionType `json:"questionType" validate:"required,oneof=scale multiple text"`
	Title   string             `json:"title" validate:"max=500"`
	Options string             `json:"options" validate:"max=2000"`
}

type PreviewQuestion struct{}
type SaveQuestion struct{}
type ViewAnswers struct{}
type SummarizeAI struct{}

func (SetPin) ActionType() string             { return TypeSetPin }
func (JoinByPin) ActionType() string          { return TypeJoinByPin }
func (ScanJoin) ActionType() string           { return TypeScanJoin }
func (SetAnswer) ActionType() string          { return TypeSetAnswer }
func (ToggleChoice) ActionType() string       { return TypeToggleChoice }
func (SubmitAnswers) ActionType() string      { return TypeSubmitAnswers }
func (CancelSession) ActionType() string      { return TypeCancelSession }
func (OpenHistory) ActionType() string        { return TypeOpenHistory }
func (OpenHistoryEntry) ActionType() string   { return TypeOpenHistoryEntry }
func (EditLatest) ActionType() string         { return TypeEditLatest }
func (SaveEdits) ActionType() string          { return TypeSaveEdits }
func (CancelEdit) ActionType() string         { return TypeCancelEdit }
func (DeleteResponse) ActionType() string     { return TypeDeleteResponse }
func (DeleteLatest) ActionType() string       { return TypeDeleteLatest }
func (GoHome) ActionType() string             { return TypeGoHome }
func (OpenCourses) ActionType() string        { return TypeOpenCourses }
func (SignIn) ActionType() string             { return TypeSignIn }
func (SignOut) ActionType() string            { return TypeSignOut }
func (Help) ActionType() string               { return TypeHelp }
func (SetDraftCourseName) ActionType() string { return TypeSetDraftCourseName }
func (CreateCourse) ActionType() string       { return TypeCreateCourse }
func (OpenCourse) ActionType() string         { return TypeOpenCourse }
func (BackToCourses) ActionType() string      { return TypeBackToCourses }
func (CreateSession) ActionType() string      { return TypeCreateSession }
func (ShareSession) ActionType() string       { return TypeShareSession }
func (CloseShare) ActionType() string         { return TypeCloseShare }
func (OpenAnalytics) ActionType() string      { return TypeOpenAnalytics }
func (CloseAnalytics) ActionType() string     { return TypeCloseAnalytics }
func (OpenBuilder) ActionType() string        { return TypeOpenBuilder }
func (CloseBuilder) ActionType() string       { return TypeCloseBuilder }
func (SetBuilder) ActionType() string         { return TypeSetBuilder }
func (PreviewQuestion) ActionType() string    { return TypePreviewQuestion }
func (SaveQuestion) ActionType() string       { return TypeSaveQuestion }
func (ViewAnswers) ActionType() string        { return TypeViewAnswers }
func (SummarizeAI) ActionType() string        { return TypeSummarizeAI }

var validate = validator.New()

var actionDecoders = map[string]func([]byte) (Action, error){
	TypeSetPin:             decodeAction[SetPin],
	TypeJoinByPin:          decodeAction[JoinByPin],
	TypeScanJoin:           decodeAction[ScanJoin],
	TypeSetAnswer:          decodeAction[SetAnswer],
	TypeToggleChoice:       decodeAction[ToggleChoice],
	TypeSubmitAnswers:      decodeAction[SubmitAnswers],
	TypeCancelSession:      decodeAction[CancelSession],
	TypeOpenHistory:        decodeAction[OpenHistory],
	TypeOpenHistoryEntry:   decodeAction[OpenHistoryEntry],
	TypeEditLatest:         decodeAction[EditLatest],
	TypeSaveEdits:          decodeAction[SaveEdits],
	TypeCancelEdit:         decodeAction[CancelEdit],
	TypeDeleteResponse:     decodeAction[DeleteResponse],
	TypeDeleteLatest:       decodeAction[DeleteLatest],
	TypeGoHome:             decodeAction[GoHome],
	TypeOpenCourses:        decodeAction[OpenCourses],
	TypeSignIn:             decodeAction[SignIn],
	TypeSignOut:            decodeAction[SignOut],
	TypeHelp:               decodeAction[Help],
	TypeSetDraftCourseName: decodeAction[SetDraftCourseName],
	TypeCreateCourse:       decodeAction[CreateCourse],
	TypeOpenCourse:         decodeAction[OpenCourse],
	TypeBackToCourses:      decodeAction[BackToCourses],
	TypeCreateSession:      decodeAction[CreateSession],
	TypeShareSession:       decodeAction[ShareSession],
	TypeCloseShare:         decodeAction[CloseShare],
	TypeOpenAnalytics:      decodeAction[OpenAnalytics],
	TypeCloseAnalytics:     decodeAction[CloseAnalytics],
	TypeOpenBuilder:        decodeAction[OpenBuilder],
	TypeCloseBuilder:       decodeAction[CloseBuilder],
	TypeSetBuilder:         decodeAction[SetBuilder],
	TypePreviewQuestion:    decodeAction[PreviewQuestion],
	TypeSaveQuestion:       decodeAction[SaveQuestion],
	TypeViewAnswers:        decodeAction[ViewAnswers],
	TypeSummarizeAI:        decodeAction[SummarizeAI],
}

// lecturerActions need a lecturer token when dispatched over the API.
// OpenCourses is absent on purpose: the machine itself rejects students.
var lecturerActions = map[string]bool{
	TypeSetDraftCourseName: true,
	TypeCreateCourse:       true,
	TypeOpenCourse:         true,
	TypeBackToCourses:      true,
	TypeCreateSession:      true,
	TypeShareSession:       true,
	TypeCloseShare:         true,
	TypeOpenAnalytics:      true,
	TypeCloseAnalytics:     true,
	TypeOpenBuilder:        true,
	TypeCloseBuilder:       true,
	TypeSetBuilder:         true,
	TypePreviewQuestion:    true,
	TypeSaveQuestion:       true,
	TypeViewAnswers:        true,
	TypeSummarizeAI:        true,
}

// LecturerOnly reports whether a needs lecturer credentials.
func LecturerOnly(a Action) bool {
	return lecturerActions[a.ActionType()]
}

// DecodeAction parses a {"type": ..., ...fields} envelope into a typed action
// and validates its fields.
func DecodeAction(data []byte) (Action, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode action: %w", err)
	}
	decode, ok := actionDecoders[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, envelope.Type)
	}
	return decode(data)
}

func decodeAction[T Action](data []byte) (Action, error) {
	var a T
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", a.ActionType(), err)
	}
	if err := validate.Struct(a); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", a.ActionType(), err)
	}
	return a, nil
}
