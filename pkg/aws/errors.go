package aws

import (
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/redshift"
)

// EC2 error codes. The v1 SDK does not export constants for these.
const (
	ErrCodeInvalidGroupDuplicate      = "InvalidGroup.Duplicate"
	ErrCodeInvalidPermissionDuplicate = "InvalidPermission.Duplicate"
)

// Outcome is how a control-plane call site should treat the result of a call.
type Outcome int

const (
	// OutcomeSuccess means the call succeeded or hit an idempotency conflict
	// such as "already exists".
	OutcomeSuccess Outcome = iota
	// OutcomeRetryable means the same call may succeed later.
	OutcomeRetryable
	// OutcomeFatal means no retry of the call can succeed.
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result is the classified result of a single control-plane call.
type Result struct {
	Outcome Outcome
	// Code is the AWS error code, empty when Err is nil or not an AWS error.
	Code string
	Err  error
}

func (r Result) OK() bool        { return r.Outcome == OutcomeSuccess }
func (r Result) Retryable() bool { return r.Outcome == OutcomeRetryable }
func (r Result) Fatal() bool     { return r.Outcome == OutcomeFatal }

// retryableCodes are transient regardless of the call site.
var retryableCodes = map[string]bool{
	redshift.ErrCodeInvalidClusterStateFault: true,
	iam.ErrCodeServiceFailureException:       true,
	"Throttling":                             true,
	"ThrottlingException":                    true,
	"RequestLimitExceeded":                   true,
	"ServiceUnavailable":                     true,
	"InternalFailure":                        true,
}

// Classify maps err to a Result. Codes listed in benign are idempotency
// conflicts for the call site and classify as OutcomeSuccess.
func Classify(err error, benign ...string) Result {
	if err == nil {
		return Result{Outcome: OutcomeSuccess}
	}
	code := ErrorCode(err)
	for _, b := range benign {
		if code != "" && code == b {
			return Result{Outcome: OutcomeSuccess, Code: code, Err: err}
		}
	}
	if code == request.CanceledErrorCode {
		return Result{Outcome: OutcomeFatal, Code: code, Err: err}
	}
	if retryableCodes[code] || request.IsErrorRetryable(err) || request.IsErrorThrottle(err) {
		return Result{Outcome: OutcomeRetryable, Code: code, Err: err}
	}
	return Result{Outcome: OutcomeFatal, Code: code, Err: err}
}

// ErrorCode returns the AWS error code of err, or "" if err is not an AWS
// error.
func ErrorCode(err error) string {
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code()
	}
	return ""
}

// IsClusterNotFound reports whether err means the cluster does not exist.
func IsClusterNotFound(err error) bool {
	return ErrorCode(err) == redshift.ErrCodeClusterNotFoundFault
}
