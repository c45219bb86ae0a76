package decision

const (
	// MaxTranscriptTurns is how many history entries are shown to the reasoning service.
	MaxTranscriptTurns = 10
	// MaxPromptCandidates caps the candidates listed in a decision prompt.
	MaxPromptCandidates = 5
	// MaxGreetingWords is the longest message still treated as a bare greeting.
	MaxGreetingWords = 4
)
