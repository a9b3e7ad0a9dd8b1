package analyzer

import (
	"context"
	"errors"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/collector"
)

// Kind classifies a failed analysis for the user.
type Kind string

const (
	KindInvalidInput Kind = "INVALID_INPUT"
	KindNoData       Kind = "NO_DATA"
	KindFetch        Kind = "FETCH_ERROR"
	KindArithmetic   Kind = "ARITHMETIC_ERROR"
	KindCanceled     Kind = "CANCELED"
)

// Kind sentinels, usable with errors.Is against an *Error.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoData       = errors.New("no data")
	ErrFetch        = errors.New("fetch failed")
	ErrArithmetic   = errors.New("arithmetic error")
	ErrCanceled     = errors.New("canceled")
)

// Error is a failed analysis. Msg is safe to show to the user.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinel of the error.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Title is a short heading for the error kind.
func (k Kind) Title() string {
	switch k {
	case KindInvalidInput:
		return "Input Error"
	case KindNoData:
		return "Data Not Found"
	case KindFetch:
		return "Data Fetch Error"
	case KindArithmetic:
		return "Calculation Error"
	case KindCanceled:
		return "Canceled"
	default:
		return "Unexpected Error"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindNoData:
		return ErrNoData
	case KindFetch:
		return ErrFetch
	case KindArithmetic:
		return ErrArithmetic
	case KindCanceled:
		return ErrCanceled
	}
	return nil
}

func invalid(msg string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg, Err: err}
}

// classify maps a pipeline failure onto the user-facing taxonomy. Only the
// run's own ctx decides cancellation: a transport timeout is a fetch error.
func classify(ctx context.Context, err error) *Error {
	var ae *Error
	switch {
	case errors.As(err, &ae):
		return ae
	case ctx.Err() != nil:
		return &Error{Kind: KindCanceled, Msg: "analysis was canceled", Err: err}
	case errors.Is(err, collector.ErrNoData):
		return &Error{Kind: KindNoData, Msg: "no data found for the symbols in the given period, check dates or symbols", Err: err}
	case errors.Is(err, calculator.ErrNoOverlap), errors.Is(err, calculator.ErrEmptySeries):
		return &Error{Kind: KindNoData, Msg: "no overlapping data found for all symbols after cleaning", Err: err}
	case errors.Is(err, calculator.ErrZeroFinalPrice), errors.Is(err, calculator.ErrNonFinitePrice):
		return &Error{Kind: KindArithmetic, Msg: "cannot normalize: end-of-range price is zero or missing", Err: err}
	default:
		return &Error{Kind: KindFetch, Msg: "error fetching market data", Err: err}
	}
}
