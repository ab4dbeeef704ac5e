package sentinel

// Compile-time check that Error implements the error interface.
var _ error = Error("")

// Error is an error type backed by a string constant. Where errors.New
// produces a variable that package consumers could reassign, an Error can be
// declared const, so the sentinel value itself is immutable.
//
// Error is a comparable type, so the == comparison performed by errors.Is
// matches sentinel values correctly through wrapped error chains.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
