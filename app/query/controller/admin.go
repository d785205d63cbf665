package controller

import (
	"net/http"
)

// HandleAdminInfo reports deployment configuration and store population, for
// operational inspection.
func (c *Controller) HandleAdminInfo(w http.ResponseWriter, _ *http.Request) {
	s := c.App.Store
	writeJSON(w, http.StatusOK, map[string]any{
		"beanstalk":     s.Proto.Beanstalk.Hex(),
		"bean":          s.Proto.Bean.Hex(),
		"version":       c.App.Config.Version.String(),
		"season":        s.CurrentSeason(),
		"mirrorEnabled": c.App.Config.MirrorEnabled,
		"notifyEnabled": c.App.Config.NotifyEnabled,
		"counts": map[string]int{
			"silos":        s.Silos.Len(),
			"siloDeposits": s.SiloDeposits.Len(),
			"fields":       s.Fields.Len(),
			"plots":        s.Plots.Len(),
			"podListings":  s.PodListings.Len(),
			"podOrders":    s.PodOrders.Len(),
			"marketEvents": s.MarketEvents.Len(),
			"farmers":      s.Farmers.Len(),
		},
	})
}
