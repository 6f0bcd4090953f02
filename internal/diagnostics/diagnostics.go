package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/packsig/internal/token"
)

// ErrorCode identifies one diagnostic kind. P codes come from the parser,
// A codes from semantic analysis, C codes from configuration loading.
type ErrorCode string

const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // a specific token was expected
	ErrP003 ErrorCode = "P003" // malformed type expression
	ErrP004 ErrorCode = "P004" // malformed requirement clause
	ErrP005 ErrorCode = "P005" // invalid integer literal

	ErrA001 ErrorCode = "A001" // reference to an undeclared parameter
	ErrA002 ErrorCode = "A002" // duplicate parameter declaration
	ErrA003 ErrorCode = "A003" // expansion pattern references no pack parameter
	ErrA004 ErrorCode = "A004" // expansion placement breaks absorption
	ErrA005 ErrorCode = "A005" // sequences cannot be matched
	ErrA006 ErrorCode = "A006" // conflicting shape requirements
	ErrA007 ErrorCode = "A007" // conflicting type requirements
	ErrA008 ErrorCode = "A008" // shape reference on a non-pack parameter
	ErrA009 ErrorCode = "A009" // generic parameter used with type arguments

	ErrC001 ErrorCode = "C001" // project config could not be read
	ErrC002 ErrorCode = "C002" // project config has an invalid value
)

var messages = map[ErrorCode]string{
	ErrP001: "unexpected token",
	ErrP002: "unexpected token, expected",
	ErrP003: "malformed type expression",
	ErrP004: "malformed requirement",
	ErrP005: "invalid integer literal",

	ErrA001: "unknown parameter",
	ErrA002: "parameter declared twice",
	ErrA003: "expansion pattern references no pack parameter",
	ErrA004: "invalid expansion placement",
	ErrA005: "cannot match",
	ErrA006: "shape conflict",
	ErrA007: "type conflict",
	ErrA008: "shape of a non-pack parameter",
	ErrA009: "parameter does not take type arguments",

	ErrC001: "cannot read config",
	ErrC002: "invalid config value",
}

// DiagnosticError is a positioned, coded error produced by any pipeline
// stage. It satisfies error so stages can hand diagnostics around like
// ordinary errors.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func (e *DiagnosticError) Error() string {
	pos := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
	if e.File != "" {
		pos = e.File + ":" + pos
	}
	return fmt.Sprintf("%s: [%s] %s", pos, e.Code, e.Message)
}

// NewError builds a DiagnosticError from the code's base message plus any
// details, stringified and appended in order.
func NewError(code ErrorCode, tok token.Token, details ...any) *DiagnosticError {
	msg, ok := messages[code]
	if !ok {
		msg = "error"
	}
	if len(details) > 0 {
		parts := make([]string, len(details))
		for i, d := range details {
			parts[i] = fmt.Sprint(d)
		}
		msg = msg + ": " + strings.Join(parts, " ")
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

// Sort orders diagnostics by file, then position, then code, so output is
// stable however the stages emitted them.
func Sort(errs []*DiagnosticError) {
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i], errs[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Token.Line != b.Token.Line {
			return a.Token.Line < b.Token.Line
		}
		if a.Token.Column != b.Token.Column {
			return a.Token.Column < b.Token.Column
		}
		return a.Code < b.Code
	})
}

const (
	ansiRed   = "\033[31m"
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

// Format renders diagnostics one per line. With colorize set, codes are
// emphasized for terminal output.
func Format(errs []*DiagnosticError, colorize bool) string {
	var b strings.Builder
	for _, e := range errs {
		if colorize {
			pos := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
			if e.File != "" {
				pos = e.File + ":" + pos
			}
			fmt.Fprintf(&b, "%s%s:%s %s[%s]%s %s\n",
				ansiBold, pos, ansiReset, ansiRed, e.Code, ansiReset, e.Message)
			continue
		}
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
