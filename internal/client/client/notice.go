package client

import "context"

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user-visible message raised by the pipeline when a call fails.
type Notice struct {
	Severity Severity
	Message  string
	Kind     error
}

// Notifier displays notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) {
	f(ctx, n)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notice) {}

// Notice texts shown per failure kind.
const (
	MsgSessionExpired = "Session expired, please login again"
	MsgAccessDenied   = "Access denied"
	MsgNotFound       = "Resource not found"
	MsgRateLimited    = "Too many requests, please try again later"
	MsgServerError    = "Server error, please try again later"
	MsgNetworkError   = "Network error"
	MsgRequestFailed  = "Request failed"
)

// noticeFor builds the notice for a classified failure.
func noticeFor(e *Error) Notice {
	n := Notice{Severity: SeverityError, Kind: e.Kind}
	switch e.Kind {
	case ErrUnauthorized:
		n.Message = MsgSessionExpired
	case ErrForbidden:
		n.Message = MsgAccessDenied
	case ErrNotFound:
		n.Message = MsgNotFound
	case ErrRateLimited:
		n.Severity = SeverityWarning
		n.Message = MsgRateLimited
	case ErrServer:
		n.Message = MsgServerError
	default:
		n.Message = e.Message
	}
	return n
}
