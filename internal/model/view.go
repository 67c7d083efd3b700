package model

// View is the screen the client should render
type View string

const (
	ViewLanding        View = "landing"
	ViewStudentSession View = "studentSession"
	ViewCompletion     View = "completion"
	ViewHistory        View = "history"
	ViewEditResponse   View = "editResponse"
	ViewCourses        View = "courses"
	ViewSessions       View = "sessions"
	ViewShare          View = "share"
	ViewBuilder        View = "builder"
	ViewAnalytics      View = "analytics"
)

// Role of the simulated user
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
)
