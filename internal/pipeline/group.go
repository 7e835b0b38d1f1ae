package pipeline

import "github.com/xavierca1/lead-pipeline/internal/entity"

// GroupByStatus partitions leads into the five pipeline stages, in pipeline
// order. Empty stages are kept. Leads with an unknown status are left out.
func GroupByStatus(leads []entity.Lead) []entity.StageGroup {
	index := make(map[entity.Status]int, len(entity.Stages))
	groups := make([]entity.StageGroup, len(entity.Stages))
	for i, stage := range entity.Stages {
		index[stage] = i
		groups[i] = entity.StageGroup{
			Title:  string(stage),
			Status: stage,
			Color:  entity.StageColor(stage),
			Leads:  []entity.Lead{},
		}
	}

	for _, lead := range leads {
		i, ok := index[lead.Status]
		if !ok {
			continue
		}
		groups[i].Leads = append(groups[i].Leads, lead)
	}

	for i := range groups {
		groups[i].Count = len(groups[i].Leads)
	}
	return groups
}
