package portal

import (
	"errors"

	"github.com/dtroode/scanportal-client/internal/model"
)

// NoticeLevel is the severity of a Notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a short message for the user, shown once.
type Notice struct {
	Level NoticeLevel
	Text  string
}

func successNotice(text string) *Notice {
	return &Notice{Level: NoticeSuccess, Text: text}
}

// errorNotice describes err for the user, using fallback when err carries no
// user-facing message. Stale results produce no notice.
func errorNotice(err error, fallback string) *Notice {
	if err == nil || errors.Is(err, ErrStaleResult) {
		return nil
	}
	return &Notice{Level: NoticeError, Text: model.UserMessage(err, fallback)}
}
