package agent

import "errors"

// Errors returned by Learners. Callers should compare with errors.Is,
// since the errors are wrapped with the operation that failed.
var (
	// ErrEmptyTrajectory is returned when updating with no recorded
	// steps
	ErrEmptyTrajectory = errors.New("empty trajectory")

	// ErrTrajectoryMismatch is returned when the number of recorded
	// rewards differs from the number of sampled actions
	ErrTrajectoryMismatch = errors.New("rewards and actions differ in length")

	// ErrEpisodeTooLong is returned when an episode has more steps than
	// the agent can learn from in a single update
	ErrEpisodeTooLong = errors.New("episode exceeds maximum length")

	// ErrNonFinite is returned when an observation or a loss is NaN or
	// infinite
	ErrNonFinite = errors.New("non-finite value")
)
