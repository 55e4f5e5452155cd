package state

import (
	"time"

	"github.com/google/uuid"
)

// newLocalEnv creates environment for a single program run.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		RunID: uuid.NewString(),
	}
}
