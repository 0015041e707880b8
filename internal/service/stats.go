package service

import "github.com/Flofactionllc/flofaction-website-sub000/internal/models"

func AggregateInteractions(records []models.InteractionRecord) models.InteractionStats {
	stats := models.InteractionStats{
		ByPageType: map[string]int{},
		ByAgent:    map[string]int{},
	}
	for _, r := range records {
		stats.TotalInteractions++
		stats.ByPageType[string(r.PageKey)]++
		stats.ByAgent[r.AgentName]++
		if r.Status == models.InteractionCompleted {
			stats.CompletedCount++
		}
	}
	return stats
}
