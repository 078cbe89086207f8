package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeInvalidParameter, "invalid parameter: %s", "test")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter: test", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeMissingUpstream, "no signals stored", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeMissingUpstream, err.Code)
	suite.Equal("no signals stored", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeMarketDataFetchFailed, cause, "failed to fetch prices for: %s", "AAPL")
	suite.NotNil(err)
	suite.Equal(ErrCodeMarketDataFetchFailed, err.Code)
	suite.Equal("failed to fetch prices for: AAPL", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeMissingUpstream, "no signals stored", cause)
	suite.Equal("[200] no signals stored: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeMissingUpstream, "no signals stored", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal(ErrCodeInvalidParameter, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeMarketDataFetchFailed, "fetch failed")
	err := Wrap(ErrCodeDataSourceUnavailable, "no provider could fetch", cause)
	// GetCode should return the outermost error's code
	suite.Equal(ErrCodeDataSourceUnavailable, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromStandardError() {
	err := errors.New("standard error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.True(HasCode(err, ErrCodeInvalidParameter))
	suite.False(HasCode(err, ErrCodeMissingUpstream))
}

func (suite *ErrorTestSuite) TestIsError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeMissingUpstream, "no signals stored", cause)
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestAsError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	var structured *Error
	suite.True(As(err, &structured))
	suite.Equal(ErrCodeInvalidParameter, structured.Code)
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	// Verify some key error codes have expected values
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(200), ErrCodeMissingUpstream)
	suite.Equal(ErrorCode(300), ErrCodeExecutionFailed)
	suite.Equal(ErrorCode(400), ErrCodeNotificationFailed)
	suite.Equal(ErrorCode(500), ErrCodeMarketDataFetchFailed)
}

func (suite *ErrorTestSuite) TestInsufficientHistoryError() {
	err := &InsufficientHistoryError{
		Window: 21,
		Bars:   5,
		Ticker: "AAPL",
	}
	suite.Equal("AAPL: 5 bars available, 21 required", err.Error())
	suite.Equal(21, err.Window)
	suite.Equal(5, err.Bars)
	suite.Equal("AAPL", err.Ticker)
}

func (suite *ErrorTestSuite) TestNewInsufficientHistoryError() {
	err := NewInsufficientHistoryError(21, 10, "SPY")
	suite.NotNil(err)
	suite.Equal(21, err.Window)
	suite.Equal(10, err.Bars)
	suite.Equal("SPY", err.Ticker)
}

func (suite *ErrorTestSuite) TestIsInsufficientHistoryError() {
	// Test with InsufficientHistoryError
	insufficientErr := NewInsufficientHistoryError(21, 10, "SPY")
	suite.True(IsInsufficientHistoryError(insufficientErr))

	// Test with standard error
	stdErr := errors.New("standard error")
	suite.False(IsInsufficientHistoryError(stdErr))

	// Test with *Error type
	structuredErr := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.False(IsInsufficientHistoryError(structuredErr))

	// Test with nil
	suite.False(IsInsufficientHistoryError(nil))
}
