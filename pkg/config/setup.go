package config

import (
	"os"

	"github.com/warptools/leafstore/lsapi"
)

/*
	State is a snapshot of everything leafstore reads from the process environment.
	It is loaded once at process start and passed down explicitly;
	nothing in leafstore consults env vars or the working directory on its own after that.
	Tests build a State with StateFromEnv and never touch the real environment.
*/

type State struct {
	Env              map[string]string
	WorkingDirectory string
}

// LoadState reads the known env keys and the working directory.
//
// Errors:
//
//   - leafstore-error-initialization -- when the working directory path cannot be found
func LoadState() (State, error) {
	env := make(map[string]string, len(envKeys))
	for _, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return State{}, lsapi.ErrorInitialization("unable to get working directory", err)
	}
	return StateFromEnv(env, cwd), nil
}

// StateFromEnv builds a State from explicit values.
// Keys that leafstore doesn't know about are dropped.
func StateFromEnv(env map[string]string, workingDirectory string) State {
	st := State{
		Env:              make(map[string]string, len(envKeys)),
		WorkingDirectory: workingDirectory,
	}
	for _, key := range envKeys {
		if v, ok := env[key]; ok {
			st.Env[key] = v
		}
	}
	return st
}
