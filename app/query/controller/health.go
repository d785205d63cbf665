package controller

import (
	"net/http"
)

// HandleHealth reports liveness plus the current reduction position. The
// Redis side channel is probed when configured; its failure degrades the
// response but never fails it, since serving reads only needs the store.
func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"season": c.App.Store.CurrentSeason(),
	}

	if c.App.Notifier != nil {
		if err := c.App.Notifier.Health(r.Context()); err != nil {
			resp["redis"] = "unreachable"
		} else {
			resp["redis"] = "ok"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
