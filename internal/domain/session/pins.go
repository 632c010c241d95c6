package session

// pins is the static credential table. It is a convenience gate, not an
// auth system.
var pins = map[string]User{
	"9871": {Name: "Michael", FullName: "Michael Goldthorpe", Client: "ALL", ClientName: "Hunch", Mode: ModeHunch},
	"1919": {Name: "Team", FullName: "Hunch Team", Client: "ALL", ClientName: "Hunch", Mode: ModeHunch},
}

// Lookup matches a PIN verbatim against the table.
func Lookup(pin string) (User, bool) {
	u, ok := pins[pin]
	return u, ok
}
