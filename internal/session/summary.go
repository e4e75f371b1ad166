package session

// Summary holds the data displayed on the result screen.
type Summary struct {
	Result   Result
	Accuracy float64
	Answers  []Answer
}

// BuildSummary creates a Summary from a finished controller. ok is false
// while the session is still running.
func BuildSummary(c *Controller) (*Summary, bool) {
	r, ok := c.Result()
	if !ok {
		return nil, false
	}
	var accuracy float64
	if r.Total > 0 {
		accuracy = float64(r.Correct) / float64(r.Total)
	}
	return &Summary{
		Result:   r,
		Accuracy: accuracy,
		Answers:  c.Answers(),
	}, true
}
