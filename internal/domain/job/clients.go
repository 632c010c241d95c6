package job

import (
	"cmp"
	"slices"
)

var displayNames = map[string]string{
	"ONE": "One NZ (Marketing)",
	"ONB": "One NZ (Business)",
	"ONS": "One NZ (Simplification)",
}

// KeyClients are listed first in the client picker.
var KeyClients = []string{"ONE", "ONB", "ONS", "SKY", "TOW"}

// DisplayName returns the friendly name for a client.
func DisplayName(c Client) string {
	if name, ok := displayNames[c.Code]; ok {
		return name
	}
	if c.Name == "" {
		return c.Code
	}
	return c.Name
}

// FindClient looks a client up by code.
func FindClient(clients []Client, code string) (Client, bool) {
	for _, c := range clients {
		if c.Code == code {
			return c, true
		}
	}
	return Client{}, false
}

// ClientCount is a picker entry.
type ClientCount struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
	Key   bool   `json:"key"`
}

// ClientCounts counts In Progress jobs per client. Clients without active
// work are left out. Key clients come first in their fixed order, the rest
// follow by name.
func ClientCounts(clients []Client, jobs []Job) []ClientCount {
	counts := make(map[string]int)
	for _, j := range jobs {
		if j.Status == StatusInProgress {
			counts[j.ClientCode]++
		}
	}

	keyRank := make(map[string]int, len(KeyClients))
	for i, code := range KeyClients {
		keyRank[code] = i
	}

	var out []ClientCount
	for _, c := range clients {
		n := counts[c.Code]
		if n == 0 {
			continue
		}
		_, key := keyRank[c.Code]
		out = append(out, ClientCount{Code: c.Code, Name: DisplayName(c), Count: n, Key: key})
	}

	slices.SortStableFunc(out, func(a, b ClientCount) int {
		switch {
		case a.Key && b.Key:
			return cmp.Compare(keyRank[a.Code], keyRank[b.Code])
		case a.Key:
			return -1
		case b.Key:
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
