package tui

import (
	"time"

	"toru/internal/client"
	"toru/internal/source"
)

// searchDoneMsg carries the outcome of one search task. gen identifies
// the task; results from a superseded generation are discarded.
type searchDoneMsg struct {
	gen     int
	res     *source.Response
	captcha *source.CaptchaError
	err     error
}

// downloadDoneMsg carries the outcome of one dispatch to a client.
type downloadDoneMsg struct {
	outcome client.Outcome
}

type configSavedMsg struct {
	err error
}

type errorMsg struct {
	err error
}

// notifTickMsg drives notification expiry while any are shown.
type notifTickMsg time.Time
