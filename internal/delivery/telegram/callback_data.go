package telegram

import (
	"strings"
)

// Callback action constants.
const (
	actionQuiz     = "quiz"
	actionProgress = "progress"
)

// Quiz sub-actions.
const (
	quizRestart = "restart"
	quizRetry   = "retry"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 || parts[0] == "" {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// buildQuizRestartCallback builds callback data for a new full round.
func buildQuizRestartCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizRestart},
	}.encode()
}

// buildQuizRetryCallback builds callback data for retrying missed codons.
func buildQuizRetryCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizRetry},
	}.encode()
}

// buildProgressCallback builds callback data for opening the progress view.
func buildProgressCallback() string {
	return actionProgress
}
