package quiz

// QuizError is the error type for quiz service failures
type QuizError string

// Error implements the error interface
func (e QuizError) Error() string {
	return string(e)
}

const (
	ErrStaleRound QuizError = "round already resolved"
	ErrNilConfig  QuizError = "config cannot be nil"
	ErrNilStore   QuizError = "store cannot be nil"
	ErrNilClock   QuizError = "clock cannot be nil"
	ErrNilUUID    QuizError = "UUID generator cannot be nil"
)
