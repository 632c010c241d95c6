package conversation

import (
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/job"
)

// Kind tags an intent service reply.
type Kind string

const (
	KindAnswer   Kind = "answer"
	KindAction   Kind = "action"
	KindConfirm  Kind = "confirm"
	KindClarify  Kind = "clarify"
	KindRedirect Kind = "redirect"
	KindError    Kind = "error"
)

// Source identifies the hub to the intent service.
const Source = "hub"

// Defaults used when the speaker has no profile details.
const (
	AnonymousSession = "anonymous"
	DefaultSender    = "Hub User"
	DefaultEmail     = "hub@hunch.co.nz"
)

// RedirectDelay gives the user time to read a redirect reply before the view
// switches.
const RedirectDelay = 1500 * time.Millisecond

// Speaker is the signed-in user asking questions.
type Speaker struct {
	Name     string
	FullName string
	Email    string
}

// SessionID is the conversation key on the intent service.
func (s Speaker) SessionID() string {
	if s.Name == "" {
		return AnonymousSession
	}
	return s.Name
}

// Request is the body posted to the intent service.
type Request struct {
	Content     string `json:"content"`
	SessionID   string `json:"sessionId"`
	Source      string `json:"source"`
	SenderEmail string `json:"senderEmail"`
	SenderName  string `json:"senderName"`
}

// NewRequest builds the request for one question.
func NewRequest(sp Speaker, question string) Request {
	r := Request{
		Content:     question,
		SessionID:   sp.SessionID(),
		Source:      Source,
		SenderEmail: sp.Email,
		SenderName:  sp.Name,
	}
	if r.SenderEmail == "" {
		r.SenderEmail = DefaultEmail
	}
	if r.SenderName == "" {
		r.SenderName = DefaultSender
	}
	return r
}

// RedirectParams pre-seed the target view.
type RedirectParams struct {
	Client string `json:"client,omitempty"`
}

// Envelope is the typed reply of the intent service.
type Envelope struct {
	Type           Kind            `json:"type"`
	Message        string          `json:"message,omitempty"`
	Jobs           []job.Job       `json:"jobs,omitempty"`
	NextPrompt     string          `json:"nextPrompt,omitempty"`
	RedirectTo     string          `json:"redirectTo,omitempty"`
	RedirectParams *RedirectParams `json:"redirectParams,omitempty"`
}

// Legacy is the older parsed-intent reply. The hub runs it against the job
// cache itself.
type Legacy struct {
	CoreRequest     string        `json:"coreRequest"`
	Understood      *bool         `json:"understood,omitempty"`
	ResponseText    string        `json:"responseText,omitempty"`
	NextPrompt      string        `json:"nextPrompt,omitempty"`
	HandoffQuestion string        `json:"handoffQuestion,omitempty"`
	SearchTerms     []string      `json:"searchTerms,omitempty"`
	Modifiers       job.Modifiers `json:"modifiers"`
}

// Reply is a decoded intent service response. Exactly one field is set, or
// neither when the service sent nothing usable.
type Reply struct {
	Envelope *Envelope
	Legacy   *Legacy
}

// Redirect is a pending view switch.
type Redirect struct {
	To     string        `json:"to"`
	Client string        `json:"client,omitempty"`
	After  time.Duration `json:"after"`
}

// Handoff is an email draft to a human.
type Handoff struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	MailTo   string `json:"mailto"`
	Question string `json:"question"`
}

// Turn is what the hub shows for one question.
type Turn struct {
	Question   string            `json:"question"`
	Type       Kind              `json:"type"`
	Message    string            `json:"message"`
	Jobs       []job.Job         `json:"jobs,omitempty"`
	Pickable   bool              `json:"pickable,omitempty"`
	NextPrompt string            `json:"nextPrompt,omitempty"`
	Redirect   *Redirect         `json:"redirect,omitempty"`
	Handoff    *Handoff          `json:"handoff,omitempty"`
	Clients    []job.ClientCount `json:"clients,omitempty"`
}
