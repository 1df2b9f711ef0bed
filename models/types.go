package models

// QuestionStatus is the lifecycle state of a question.
type QuestionStatus string

// Question status constants
const (
	StatusUnanswered QuestionStatus = "unanswered"
	StatusAnswered   QuestionStatus = "answered"
)

// Valid reports whether s is a known status.
func (s QuestionStatus) Valid() bool {
	return s == StatusUnanswered || s == StatusAnswered
}

// unknownName stands in for an asker or expert row that no longer exists.
const unknownName = "unknown"

// Domain types

type User struct {
	ID           int64
	Name         string
	PasswordHash string // Never rendered
	Expert       bool
	Admin        bool
}

type Question struct {
	ID       int64
	Text     string
	Answer   *string
	Status   QuestionStatus
	AskedBy  int64
	ExpertID int64
}

func (q Question) Answered() bool {
	return q.Status == StatusAnswered
}

// QuestionSummary is one row of the answered list. Asker and Expert come
// from left joins and are nil when the user row is missing.
type QuestionSummary struct {
	ID     int64
	Text   string
	Asker  *string
	Expert *string
}

func (q QuestionSummary) AskerName() string  { return nameOrUnknown(q.Asker) }
func (q QuestionSummary) ExpertName() string { return nameOrUnknown(q.Expert) }

// QuestionDetail is a single question with its answer and participants.
type QuestionDetail struct {
	ID     int64
	Text   string
	Answer *string
	Status QuestionStatus
	Asker  *string
	Expert *string
}

func (q QuestionDetail) AskerName() string  { return nameOrUnknown(q.Asker) }
func (q QuestionDetail) ExpertName() string { return nameOrUnknown(q.Expert) }

func (q QuestionDetail) AnswerText() string {
	if q.Answer == nil {
		return ""
	}
	return *q.Answer
}

// PendingQuestion is a question waiting for the current expert.
type PendingQuestion struct {
	ID    int64
	Text  string
	Asker string
}

func nameOrUnknown(name *string) string {
	if name == nil {
		return unknownName
	}
	return *name
}

// View types

type HomePage struct {
	User     *User
	Answered []QuestionSummary
}

// AuthPage backs both the register and login forms.
type AuthPage struct {
	User  *User
	Error string
}

type QuestionPage struct {
	User     *User
	Question QuestionDetail
}

type AnswerPage struct {
	User     *User
	Question Question
	Error    string
}

type AskPage struct {
	User    *User
	Experts []User
	Error   string
}

type UnansweredPage struct {
	User      *User
	Questions []PendingQuestion
}

type UsersPage struct {
	User  *User
	Users []User
}
