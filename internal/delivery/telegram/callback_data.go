package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback actions. Round-bound actions carry the round they were rendered
// for so presses on old messages can be told apart.
const (
	actionAnswer = "ans"   // ans:<round>:<choice>
	actionNext   = "next"  // next:<round>
	actionAgain  = "again" // again
	actionDaily  = "daily" // daily
)

var errBadCallback = errors.New("bad callback data")

type callback struct {
	Action string
	Round  int
	Choice int
}

func answerData(round, choice int) string {
	return actionAnswer + ":" + strconv.Itoa(round) + ":" + strconv.Itoa(choice)
}

func nextData(round int) string {
	return actionNext + ":" + strconv.Itoa(round)
}

func parseCallback(data string) (callback, error) {
	parts := strings.Split(data, ":")
	cb := callback{Action: parts[0]}

	switch cb.Action {
	case actionAnswer:
		if len(parts) != 3 {
			return cb, errBadCallback
		}
		var err1, err2 error
		cb.Round, err1 = strconv.Atoi(parts[1])
		cb.Choice, err2 = strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			return cb, errBadCallback
		}
	case actionNext:
		if len(parts) != 2 {
			return cb, errBadCallback
		}
		var err error
		if cb.Round, err = strconv.Atoi(parts[1]); err != nil {
			return cb, errBadCallback
		}
	case actionAgain, actionDaily:
		if len(parts) != 1 {
			return cb, errBadCallback
		}
	default:
		return cb, errBadCallback
	}
	return cb, nil
}
