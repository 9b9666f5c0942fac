package routing

import "time"

func SetNow(e *Engine, now func() time.Time) {
	e.now = now
}
