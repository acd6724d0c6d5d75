package save

import (
	"fmt"
	"sort"
	"strings"
)

// Error codes carried by structured errors. The codes are stable message
// keys; the CLI (or any other frontend) maps them to human-readable text.
const (
	CodeIO               = "errors.ioError"
	CodeXMLParse         = "errors.xmlParseError"
	CodeBackup           = "errors.backupError"
	CodeSavegameNotFound = "errors.savegameNotFound"
	CodeFileWrite        = "errors.fileWriteError"
)

// Error is a structured error with a machine-readable code and named
// parameters. Per-file write failures are collected as Errors in a Result
// instead of aborting the whole save.
type Error struct {
	Code   string
	Params map[string]string
	cause  error
}

// NewError builds an Error from a code and alternating key/value parameter
// pairs.
func NewError(code string, cause error, kv ...string) *Error {
	params := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	return &Error{Code: code, Params: params, cause: cause}
}

func (e *Error) Error() string {
	if len(e.Params) == 0 {
		return e.Code
	}
	keys := make([]string, 0, len(e.Params))
	for k := range e.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(e.Code)
	for i, k := range keys {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", k, e.Params[k])
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }
