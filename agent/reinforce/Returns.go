package reinforce

// DiscountedReturns returns the discounted return following each step
// of an episode with the given rewards, computed backwards as
// G[t] = r[t] + γ G[t+1] with G[T] = 0.
func DiscountedReturns(rewards []float64, gamma float64) []float64 {
	returns := make([]float64, len(rewards))

	running := 0.0
	for t := len(rewards) - 1; t >= 0; t-- {
		running = rewards[t] + gamma*running
		returns[t] = running
	}
	return returns
}
