package session

import "time"

// Mode distinguishes the agency view from a client-scoped view.
type Mode string

const (
	ModeHunch  Mode = "hunch"
	ModeClient Mode = "client"
)

// User is the profile a PIN unlocks.
type User struct {
	Name       string `json:"name"`
	FullName   string `json:"fullName"`
	Client     string `json:"client"`
	ClientName string `json:"clientName"`
	Mode       Mode   `json:"mode"`
	Email      string `json:"email,omitempty"`
}

// AllClients reports whether the user may see every client's jobs.
func (u User) AllClients() bool {
	return u.Client == "" || u.Client == "ALL"
}

// Session is a signed-in browser or CLI session.
type Session struct {
	ID           string    `json:"id"`
	User         User      `json:"user"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}
