package conversation

import "math/rand/v2"

// RetryPrompt follows every apology.
const RetryPrompt = "What can Dot do?"

const (
	muddleMessage  = "Sorry, I got in a muddle over that one."
	unknownMessage = "I'm not sure what happened there."
)

// Apologies are shown when the intent service cannot be reached or sends
// something unreadable.
var Apologies = []string{
	"Hmm, I'm having trouble thinking right now. Try again?",
	"Sorry, my wires got crossed. Give it another go?",
	"Doh, I lost my train of thought. Try that again?",
	"Hmm, something went sideways. One more time?",
}

// PickMessage chooses one of variants uniformly. It returns "" for an empty
// list.
func PickMessage(variants []string, r RandomSource) string {
	if len(variants) == 0 {
		return ""
	}
	if r == nil {
		r = globalRand{}
	}
	return variants[r.IntN(len(variants))]
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }
