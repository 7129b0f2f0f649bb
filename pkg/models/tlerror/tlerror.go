package tlerror

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	TL_UNEXPECTED     = "TLUNX"
	TL_INVALID_CONFIG = "TLCFG"
	TL_CLOSED         = "TLCLS"
	TL_PREPARE_FAILED = "TLPRP"
	TL_UNKNOWN_OP     = "TLOPS"
)

var existingErrorCodeMap = map[string]string{
	TL_INVALID_CONFIG: "Invalid configuration",
	TL_CLOSED:         "Engine is closed",
	TL_PREPARE_FAILED: "Population assignment failed",
	TL_UNKNOWN_OP:     "Unknown operation",
}

func GetMessageByCode(errorCode string) string {
	rep, ok := existingErrorCodeMap[errorCode]
	if ok {
		return rep
	}
	return "Unexpected error"
}

var _ error = &TlError{}

type TlError struct {
	Err error

	ErrorCode string
}

// New creates a TlError with the given code and message.
func New(errorCode string, errorMsg string) *TlError {
	return &TlError{
		Err:       fmt.Errorf("%s", errorMsg),
		ErrorCode: errorCode,
	}
}

// Newf creates a TlError with the given code and a formatted message.
// A %w verb in format keeps the wrapped error reachable through Unwrap.
func Newf(errorCode string, format string, a ...any) *TlError {
	return &TlError{
		Err:       fmt.Errorf(format, a...),
		ErrorCode: errorCode,
	}
}

func (er *TlError) Error() string {
	return fmt.Sprintf("Code: %s. Name: %s. Description: %s.",
		er.ErrorCode, GetMessageByCode(er.ErrorCode), er.Err)
}

func (er *TlError) Unwrap() error {
	return er.Err
}

// HasCode reports whether the first TlError in err's tree carries code.
func HasCode(err error, code string) bool {
	var te *TlError
	return errors.As(err, &te) && te.ErrorCode == code
}
