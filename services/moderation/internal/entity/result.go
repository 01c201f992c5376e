package entity

// ServiceResultCode is the outcome of every moderation and content operation.
type ServiceResultCode int

const (
	ResultSuccess ServiceResultCode = iota
	ResultUnauthenticated
	ResultUnauthorized
	ResultNotFound
	ResultInvalidState
	ResultInvalidArguments
	ResultError
)

func (c ServiceResultCode) String() string {
	switch c {
	case ResultSuccess:
		return "success"
	case ResultUnauthenticated:
		return "unauthenticated"
	case ResultUnauthorized:
		return "unauthorized"
	case ResultNotFound:
		return "not_found"
	case ResultInvalidState:
		return "invalid_state"
	case ResultInvalidArguments:
		return "invalid_arguments"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

func (c ServiceResultCode) IsSuccess() bool {
	return c == ResultSuccess
}
