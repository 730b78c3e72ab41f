package domain

// Result holds the outcome of a similarity computation.
type Result struct {
	Name            string
	Score           float64
	Passed          bool
	FirstWordCount  int
	SecondWordCount int
	MatchedPairs    int
	Threshold       float64
	Details         map[string]interface{}
}

// Match holds one ranked candidate from a batch matching run.
type Match struct {
	Index     int
	Candidate string
	Score     float64
	Passed    bool
}
