package agent

import (
	"github.com/samuelfneumann/goreinforce/environment"
)

// Type represents a specific type of an agent Config. Config's with
// this type can create Agents of the corresponding type.
type Type string

const (
	GaussianREINFORCETreeMLP Type = "GaussianREINFORCE-TreeMLP"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes. All
	// randomness of the agent is derived from seed.
	CreateAgent(env environment.Environment, seed uint64) (Agent, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent the Config creates
	Type() Type
}
