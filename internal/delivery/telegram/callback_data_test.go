package telegram

import "testing"

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		data   string
		action string
		param0 string
	}{
		{"quiz:retry", actionQuiz, quizRetry},
		{"quiz:restart", actionQuiz, quizRestart},
		{"progress", actionProgress, ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		cd := decodeCallback(tt.data)
		if cd.Action != tt.action || cd.param(0) != tt.param0 || cd.Raw != tt.data {
			t.Errorf("decodeCallback(%q) = %+v", tt.data, cd)
		}
	}
}

func TestCallbackBuilders(t *testing.T) {
	if got := buildQuizRetryCallback(); got != "quiz:retry" {
		t.Errorf("retry = %q", got)
	}
	if got := buildQuizRestartCallback(); got != "quiz:restart" {
		t.Errorf("restart = %q", got)
	}
	if got := buildProgressCallback(); got != "progress" {
		t.Errorf("progress = %q", got)
	}
}

func TestParamOutOfRange(t *testing.T) {
	cd := decodeCallback("quiz")
	if cd.param(0) != "" || cd.param(-1) != "" {
		t.Fatal("param out of range returned a value")
	}
}
