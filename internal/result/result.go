// Package result defines the envelope the gateway hands back to its caller.
// Every orchestration outcome, success or failure, crosses that boundary as a
// Result; errors never do.
package result

// Failure codes returned by the gateway.
const (
	CodeGatewayValidation = "gateway.validation"
	CodeGatewayCanceled   = "gateway.canceled"
	CodeUserValidation    = "user.validation"
	CodeUserTimeout       = "user.timeout"
	CodeUserNotFound      = "user.not_found"
	CodeUserUnexpected    = "user.unexpected"
	CodeOrderValidation   = "order.validation"
	CodeOrderConflict     = "order.conflict"
	CodeOrderCanceled     = "order.canceled"
	CodeOrderUnexpected   = "order.unexpected"
)

// Result carries either a success value or a (code, message) failure pair.
type Result[T any] struct {
	Value   T
	Code    string
	Message string
}

func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

func Fail[T any](code, message string) Result[T] {
	return Result[T]{Code: code, Message: message}
}

func (r Result[T]) IsSuccess() bool { return r.Code == "" }
