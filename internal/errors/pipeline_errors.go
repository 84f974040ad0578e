package errors

import "fmt"

// NewSourceLoadError reports an input document that cannot be read or parsed.
// source is the logical input name (tripinfo, dispatchinfo, directRoutes).
func NewSourceLoadError(source, path string, cause error) *AppError {
	return NewAppError(ErrTypeSourceLoad, fmt.Sprintf("cannot load %s source %q", source, path), cause).
		WithContext("source", source).
		WithContext("path", path)
}

// NewMalformedRecordError reports a record whose required attribute is absent or not numeric.
// It is classified as a source load failure: the document cannot be interpreted.
func NewMalformedRecordError(source, element, attr string, cause error) *AppError {
	msg := fmt.Sprintf("%s: <%s> has missing or invalid attribute %q", source, element, attr)
	return NewAppError(ErrTypeSourceLoad, msg, cause).
		WithContext("source", source).
		WithContext("element", element).
		WithContext("attribute", attr)
}

// NewMissingDataError reports a required source that parsed but holds no matching records.
func NewMissingDataError(source, what string) *AppError {
	return NewAppError(ErrTypeMissingData, fmt.Sprintf("%s contains no %s", source, what), nil).
		WithContext("source", source)
}

// NewDegenerateInputError reports a derived ratio whose denominator is zero.
func NewDegenerateInputError(kpi, denominator string) *AppError {
	msg := fmt.Sprintf("cannot compute %s: %s is zero", kpi, denominator)
	return NewAppError(ErrTypeDegenerateInput, msg, nil).
		WithContext("kpi", kpi).
		WithContext("denominator", denominator)
}

// IsSourceLoad reports whether err is a source load failure.
func IsSourceLoad(err error) bool { return HasType(err, ErrTypeSourceLoad) }

// IsMissingData reports whether err is a missing-data failure.
func IsMissingData(err error) bool { return HasType(err, ErrTypeMissingData) }

// IsDegenerateInput reports whether err is a zero-denominator failure.
func IsDegenerateInput(err error) bool { return HasType(err, ErrTypeDegenerateInput) }
