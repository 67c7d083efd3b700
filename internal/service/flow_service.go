package service

import (
	"classpulse/internal/cache"
	"classpulse/internal/model"
	"classpulse/internal/store"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notices shown to the user
const (
	noticePinNotFound      = "Session not found. Check the PIN."
	noticeNothingToJoin    = "No sessions to join yet."
	noticeSignedIn         = "Signed in via WebSSO (demo)"
	noticeFeedbackSaved    = "Feedback saved"
	noticeEntrySessionGone = "Session not found for this entry."
	noticeEntryNotFound    = "Response not found."
	noticeAnswersUpdated   = "Answers updated"
	noticeAnswersDeleted   = "Answers deleted"
	noticeNoSubmissions    = "No submissions yet."
	noticeLecturerOnly     = "Lecturer area only. Sign in with WebSSO first."
	noticeBlankCourse      = "Please add a course name."
	noticeCourseNotFound   = "Course not found."
	noticeSessionCreated   = "Session created. Add your questions."
	noticeSessionMissing   = "Session not found."
	noticeQuestionAdded    = "Question added to session"
	noticeQuestionMissing  = "Question not found."
	noticeInvalidBuilder   = "Pick a scale, multiple or text question."
	noticeViewingAnswers   = "Viewing individual answers"
	noticeAISummary        = "AI summary would appear here."
)

const (
	defaultQuestionTitle    = "Untitled question"
	defaultChoiceOptionsCSV = "Option A, Option B"
	defaultSessionTitleFmt  = "Session %d"
	defaultHelpContact      = "help@classpulse.local"
	defaultJoinBaseURL      = "http://localhost:8080/join"
)

// FlowConfig holds the user-facing settings of the machine
type FlowConfig struct {
	JoinBaseURL string
	HelpContact string
}

// Result reports what one dispatch did
type Result struct {
	Action  string     `json:"action"`
	View    model.View `json:"view"`
	Notice  string     `json:"notice,omitempty"`
	Changed bool       `json:"changed"`

	// State is the snapshot taken right after the action, inside the same
	// critical section.
	State *model.Snapshot `json:"-"`
}

type outcome struct {
	changed bool
	notice  string
}

func applied(notice string) outcome { return outcome{changed: true, notice: notice} }

// notify posts a notice without touching the state
func notify(notice string) outcome { return outcome{notice: notice} }

// FlowService is the view-state machine. It owns the store and applies one
// action at a time.
type FlowService struct {
	mu          sync.Mutex
	state       *store.State
	cfg         FlowConfig
	notices     cache.NoticeCache
	codes       *Codes
	analytics   *AnalyticsService
	metrics     *Metrics
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time
}

// NewFlowService creates a machine in its initial state
func NewFlowService(cfg FlowConfig, notices cache.NoticeCache, codes *Codes, analytics *AnalyticsService, logger *zap.Logger) *FlowService {
	if cfg.JoinBaseURL == "" {
		cfg.JoinBaseURL = defaultJoinBaseURL
	}
	if cfg.HelpContact == "" {
		cfg.HelpContact = defaultHelpContact
	}
	if notices == nil {
		notices = cache.NewMemoryNoticeCache(cache.DefaultNoticeTTL)
	}
	if codes == nil {
		codes = NewCodes()
	}
	if analytics == nil {
		analytics = NewAnalyticsService()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlowService{
		state:     store.New(),
		cfg:       cfg,
		notices:   notices,
		codes:     codes,
		analytics: analytics,
		logger:    logger,
		now:       time.Now,
	}
}

// SetBroadcaster sets the broadcaster (to avoid circular dependency)
func (s *FlowService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetMetrics enables Prometheus recording
func (s *FlowService) SetMetrics(m *Metrics) {
	s.metrics = m
}

// SetClock replaces the time source used for history timestamps
func (s *FlowService) SetClock(now func() time.Time) {
	s.now = now
}

// Dispatch applies one action. Rejections return a wrapped sentinel error
// and leave the state untouched; the Result still carries the notice.
// Actions missing their context (no active session, etc.) are no-ops.
func (s *FlowService) Dispatch(ctx context.Context, action Action) (*Result, error) {
	if action == nil {
		return nil, fmt.Errorf("%w: nil action", ErrUnknownAction)
	}

	s.mu.Lock()
	out, err := s.apply(action)
	if out.notice != "" {
		if perr := s.notices.Post(ctx, out.notice); perr != nil {
			s.logger.Warn("failed to post notice", zap.String("notice", out.notice), zap.Error(perr))
		}
	}
	result := &Result{
		Action:  action.ActionType(),
		View:    s.state.View,
		Notice:  out.notice,
		Changed: out.changed,
		State:   s.snapshotLocked(ctx),
	}
	// Broadcast under the lock so viewers receive snapshots in dispatch order.
	// Broadcasters must not block.
	if s.broadcaster != nil && (out.changed || out.notice != "") {
		s.broadcaster.Broadcast(MsgRender, result.State)
	}
	courses, sessions, responses := s.state.Counts()
	s.mu.Unlock()

	label := OutcomeApplied
	switch {
	case err != nil:
		label = OutcomeRejected
		s.logger.Info("action rejected",
			zap.String("action", result.Action),
			zap.String("view", string(result.View)),
			zap.Error(err))
	case !out.changed:
		label = OutcomeNoop
		s.logger.Debug("action ignored", zap.String("action", result.Action))
	default:
		s.logger.Debug("action applied",
			zap.String("action", result.Action),
			zap.String("view", string(result.View)))
	}
	s.metrics.ObserveAction(result.Action, label)
	s.metrics.SetCounts(courses, sessions, responses)
	return result, err
}

func (s *FlowService) apply(action Action) (outcome, error) {
	st := s.state
	switch a := action.(type) {
	// student
	case SetPin:
		st.PIN = a.PIN
		return applied(""), nil
	case JoinByPin:
		pin := a.PIN
		if pin == "" {
			pin = st.PIN
		}
		return s.joinByPin(pin)
	case ScanJoin:
		return s.scanJoin()
	case SetAnswer:
		return s.setAnswer(a)
	case ToggleChoice:
		return s.toggleChoice(a)
	case SubmitAnswers:
		return s.submitAnswers()
	case CancelSession:
		st.View = model.ViewLanding
		return applied(""), nil
	case OpenHistory:
		st.View = model.ViewHistory
		return applied(""), nil
	case OpenHistoryEntry:
		return s.openHistoryEntry(a.EntryID)
	case EditLatest:
		if len(st.History) == 0 {
			return notify(noticeNoSubmissions), ErrNoSubmissions
		}
		return s.openHistoryEntry(st.History[0].ID)
	case SaveEdits:
		return s.saveEdits()
	case CancelEdit:
		st.View = model.ViewHistory
		return applied(""), nil
	case DeleteResponse:
		return s.deleteResponse(a.EntryID)
	case DeleteLatest:
		if len(st.History) == 0 {
			return outcome{}, nil
		}
		return s.deleteResponse(st.History[0].ID)

	// navigation
	case GoHome:
		st.EditingEntry = nil
		st.Role = model.RoleStudent
		st.View = model.ViewLanding
		return applied(""), nil
	case OpenCourses:
		if st.Role != model.RoleLecturer {
			return notify(noticeLecturerOnly), ErrLecturerOnly
		}
		st.View = model.ViewCourses
		return applied(""), nil
	case SignIn:
		st.Role = model.RoleLecturer
		st.View = model.ViewCourses
		return applied(noticeSignedIn), nil
	case SignOut:
		st.EditingEntry = nil
		st.Role = model.RoleStudent
		st.View = model.ViewLanding
		return applied(""), nil
	case Help:
		return notify("Help is on the way. Reach us at " + s.cfg.HelpContact), nil

	// lecturer
	case SetDraftCourseName:
		st.DraftCourse = a.Name
		return applied(""), nil
	case CreateCourse:
		return s.createCourse()
	case OpenCourse:
		course := st.FindCourse(a.CourseID)
		if course == nil {
			return notify(noticeCourseNotFound), fmt.Errorf("open course %q: %w", a.CourseID, ErrCourseNotFound)
		}
		st.ActiveCourse = course
		st.View = model.ViewSessions
		return applied(""), nil
	case BackToCourses:
		st.View = model.ViewCourses
		return applied(""), nil
	case CreateSession:
		return s.createSession(a.CourseID)
	case ShareSession:
		session, out, err := s.sessionInActiveCourse(a.SessionID)
		if session == nil {
			return out, err
		}
		st.ActiveSession = session
		st.PreviousView = model.ViewSessions
		st.View = model.ViewShare
		return applied(""), nil
	case CloseShare:
		st.View = st.PreviousView
		return applied(""), nil
	case OpenAnalytics:
		session, out, err := s.sessionInActiveCourse(a.SessionID)
		if session == nil {
			return out, err
		}
		st.ActiveSession = session
		st.View = model.ViewAnalytics
		return applied(""), nil
	case CloseAnalytics, CloseBuilder:
		st.View = model.ViewSessions
		return applied(""), nil
	case OpenBuilder:
		session, out, err := s.sessionInActiveCourse(a.SessionID)
		if session == nil {
			return out, err
		}
		st.ActiveSession = session
		st.View = model.ViewBuilder
		return applied(""), nil
	case SetBuilder:
		if !a.Type.Valid() {
			return notify(noticeInvalidBuilder), fmt.Errorf("%w: type %q", ErrInvalidBuilder, a.Type)
		}
		st.Builder = model.BuilderForm{Type: a.Type, Title: a.Title, Options: a.Options}
		return applied(""), nil
	case PreviewQuestion:
		q := buildQuestion(st.Builder)
		st.Preview = &q
		return applied(""), nil
	case SaveQuestion:
		return s.saveQuestion()
	case ViewAnswers:
		return notify(noticeViewingAnswers), nil
	case SummarizeAI:
		return notify(noticeAISummary), nil
	}
	return outcome{}, fmt.Errorf("%w: %T", ErrUnknownAction, action)
}

func (s *FlowService) joinByPin(pin string) (outcome, error) {
	st := s.state
	session := st.FindSessionByPin(pin)
	if session == nil {
		return notify(noticePinNotFound), fmt.Errorf("join %q: %w", strings.TrimSpace(pin), ErrSessionNotFound)
	}

	st.PIN = pin
	st.Role = model.RoleStudent
	st.EditingEntry = nil
	s.setActive(session, st.CourseOf(session))
	if existing := st.UserResponse(session); existing != nil {
		st.Answers = existing.Answers.Clone()
	} else {
		st.Answers = defaultAnswers(session)
	}
	st.View = model.ViewStudentSession
	return applied("Joined " + session.Title), nil
}

func (s *FlowService) scanJoin() (outcome, error) {
	st := s.state
	if len(st.Courses) == 0 || len(st.Courses[0].Sessions) == 0 {
		return notify(noticeNothingToJoin), ErrNothingToJoin
	}
	return s.joinByPin(st.Courses[0].Sessions[0].PIN)
}

func (s *FlowService) setAnswer(a SetAnswer) (outcome, error) {
	st := s.state
	if st.ActiveSession == nil {
		return outcome{}, nil
	}
	q, ok := st.ActiveSession.Question(a.QuestionID)
	if !ok {
		return notify(noticeQuestionMissing), fmt.Errorf("set answer %q: %w", a.QuestionID, ErrUnknownQuestion)
	}

	answer := a.Answer
	var err error
	if answer == nil {
		answer, err = model.DecodeAnswer(*q, a.Value)
	} else {
		err = model.ValidateAnswer(*q, answer)
	}
	if err != nil {
		return notify("Invalid answer for " + q.Title + "."), fmt.Errorf("set answer %q: %w", q.ID, err)
	}

	if st.Answers == nil {
		st.Answers = model.Answers{}
	}
	if c, ok := answer.(model.ChoiceAnswer); ok {
		answer = c.Dedupe()
	}
	st.Answers[q.ID] = answer
	return applied(""), nil
}

func (s *FlowService) toggleChoice(a ToggleChoice) (outcome, error) {
	st := s.state
	if st.ActiveSession == nil {
		return outcome{}, nil
	}
	q, ok := st.ActiveSession.Question(a.QuestionID)
	if !ok {
		return notify(noticeQuestionMissing), fmt.Errorf("toggle %q: %w", a.QuestionID, ErrUnknownQuestion)
	}
	if q.Type != model.QuestionTypeMultiple || !q.HasChoice(a.Choice) {
		return notify("Invalid answer for " + q.Title + "."),
			fmt.Errorf("%w: %q is not an option of %q", ErrInvalidAnswer, a.Choice, q.ID)
	}

	if st.Answers == nil {
		st.Answers = model.Answers{}
	}
	current, _ := st.Answers[q.ID].(model.ChoiceAnswer)
	st.Answers[q.ID] = current.Toggle(a.Choice)
	return applied(""), nil
}

func (s *FlowService) submitAnswers() (outcome, error) {
	st := s.state
	if st.ActiveSession == nil || st.ActiveCourse == nil {
		return outcome{}, nil
	}

	session := st.ActiveSession
	response := st.UserResponse(session)
	if response == nil {
		response = &model.Response{ID: s.codes.ID()}
		session.Responses = append(session.Responses, response)
	}
	response.UserID = model.CurrentUserID
	response.Student = model.CurrentStudentName
	response.Answers = st.Answers.Clone()

	st.UpsertHistory(&model.HistoryEntry{
		ID:        response.ID,
		CourseID:  st.ActiveCourse.ID,
		Course:    st.ActiveCourse.Name,
		SessionID: session.ID,
		Session:   session.Title,
		Timestamp: s.now(),
		Answers:   st.Answers.Clone(),
	})
	st.EditingEntry = nil
	st.View = model.ViewCompletion
	return applied(noticeFeedbackSaved), nil
}

func (s *FlowService) openHistoryEntry(entryID string) (outcome, error) {
	st := s.state
	_, entry := st.HistoryEntry(entryID)
	if entry == nil {
		return notify(noticeEntryNotFound), fmt.Errorf("open entry %q: %w", entryID, ErrEntryNotFound)
	}
	session := st.FindSessionByID(entry.SessionID)
	if session == nil {
		return notify(noticeEntrySessionGone), fmt.Errorf("open entry %q: %w", entryID, ErrEntrySessionMissing)
	}

	s.setActive(session, st.CourseOf(session))
	st.EditingEntry = entry
	st.Answers = entry.Answers.Clone()
	st.View = model.ViewEditResponse
	return applied("Editing " + entry.Session), nil
}

func (s *FlowService) saveEdits() (outcome, error) {
	st := s.state
	entry := st.EditingEntry
	if entry == nil {
		return outcome{}, nil
	}
	// The entry's own session, never whatever session is active now.
	session := st.FindSessionByID(entry.SessionID)
	if session == nil {
		return notify(noticeEntrySessionGone), fmt.Errorf("save entry %q: %w", entry.ID, ErrEntrySessionMissing)
	}

	if existing := st.UserResponse(session); existing != nil {
		existing.Answers = st.Answers.Clone()
	}
	updated := *entry
	updated.Answers = st.Answers.Clone()
	updated.Timestamp = s.now()
	st.EditingEntry = st.UpsertHistory(&updated)

	st.View = model.ViewHistory
	return applied(noticeAnswersUpdated), nil
}

func (s *FlowService) deleteResponse(entryID string) (outcome, error) {
	st := s.state
	idx, entry := st.HistoryEntry(entryID)
	if entry == nil {
		return outcome{}, nil
	}

	if session := st.FindSessionByID(entry.SessionID); session != nil {
		store.RemoveResponse(session, entry.ID, model.CurrentUserID)
	}
	st.RemoveHistory(idx)
	st.EditingEntry = nil
	st.Answers = model.Answers{}
	st.View = model.ViewHistory
	return applied(noticeAnswersDeleted), nil
}

func (s *FlowService) createCourse() (outcome, error) {
	st := s.state
	name := strings.TrimSpace(st.DraftCourse)
	if name == "" {
		return notify(noticeBlankCourse), ErrBlankCourseName
	}

	code := s.codes.CourseCode(name)
	course := &model.Course{
		ID:       s.codes.ID(),
		Name:     name,
		Code:     code,
		Sessions: []*model.Session{},
	}
	st.Courses = append(st.Courses, course)
	st.ActiveCourse = course
	st.DraftCourse = ""
	return applied(fmt.Sprintf("Course created (%s)", code)), nil
}

func (s *FlowService) createSession(courseID string) (outcome, error) {
	st := s.state
	course := st.ActiveCourse
	if courseID != "" {
		course = st.FindCourse(courseID)
		if course == nil {
			return notify(noticeCourseNotFound), fmt.Errorf("create session in %q: %w", courseID, ErrCourseNotFound)
		}
	}
	if course == nil {
		return outcome{}, nil
	}

	session := &model.Session{
		ID:        s.codes.ID(),
		Title:     fmt.Sprintf(defaultSessionTitleFmt, len(course.Sessions)+1),
		PIN:       s.codes.PIN(),
		Questions: []model.Question{},
		Responses: []*model.Response{},
	}
	course.Sessions = append([]*model.Session{session}, course.Sessions...)
	s.setActive(session, course)
	st.PreviousView = model.ViewSessions
	st.View = model.ViewBuilder
	return applied(noticeSessionCreated), nil
}

func (s *FlowService) saveQuestion() (outcome, error) {
	st := s.state
	if st.ActiveSession == nil {
		return outcome{}, nil
	}
	q := buildQuestion(st.Builder)
	q.ID = s.codes.ID()
	st.ActiveSession.Questions = append(st.ActiveSession.Questions, q)
	st.Builder = model.DefaultBuilderForm()
	st.Preview = nil
	return applied(noticeQuestionAdded), nil
}

// sessionInActiveCourse resolves id against the active course only. A missing
// active course is a silent no-op; an unknown id is a rejection.
func (s *FlowService) sessionInActiveCourse(id string) (*model.Session, outcome, error) {
	if s.state.ActiveCourse == nil {
		return nil, outcome{}, nil
	}
	session := store.SessionInCourse(s.state.ActiveCourse, id)
	if session == nil {
		return nil, notify(noticeSessionMissing), fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	return session, outcome{}, nil
}

func (s *FlowService) setActive(session *model.Session, course *model.Course) {
	s.state.ActiveSession = session
	if course != nil {
		s.state.ActiveCourse = course
	}
}

func buildQuestion(form model.BuilderForm) model.Question {
	q := model.Question{
		Title: strings.TrimSpace(form.Title),
		Type:  form.Type,
	}
	if q.Title == "" {
		q.Title = defaultQuestionTitle
	}
	if q.Type == model.QuestionTypeMultiple {
		q.Choices = splitOptions(form.Options)
		if len(q.Choices) == 0 {
			q.Choices = splitOptions(defaultChoiceOptionsCSV)
		}
	}
	return q
}

func splitOptions(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultAnswers(session *model.Session) model.Answers {
	answers := make(model.Answers, len(session.Questions))
	for _, q := range session.Questions {
		answers[q.ID] = model.DefaultAnswer(q)
	}
	return answers
}
