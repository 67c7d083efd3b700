package model

// Course groups the sessions a lecturer runs for one class
type Course struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Code     string     `json:"code"`     // e.g. "ICS-482"
	Sessions []*Session `json:"sessions"` // newest first
}

// Session is one live polling round inside a course
type Session struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	PIN       string      `json:"pin"` // 4 digits, not unique
	Questions []Question  `json:"questions"`
	Responses []*Response `json:"responses"`
}

// Question returns the session question with the given ID.
func (s *Session) Question(id string) (*Question, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i], true
		}
	}
	return nil, false
}

// Clone deep-copies the session including its responses.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		ID:        s.ID,
		Title:     s.Title,
		PIN:       s.PIN,
		Questions: make([]Question, len(s.Questions)),
		Responses: make([]*Response, len(s.Responses)),
	}
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	for i, r := range s.Responses {
		out.Responses[i] = r.Clone()
	}
	return out
}

// Clone deep-copies the course and all of its sessions.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := &Course{
		ID:       c.ID,
		Name:     c.Name,
		Code:     c.Code,
		Sessions: make([]*Session, len(c.Sessions)),
	}
	for i, s := range c.Sessions {
		out.Sessions[i] = s.Clone()
	}
	return out
}
