package backup

import (
	"slices"
	"strings"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
)

// PlanEviction selects the backups to delete so that one more fits under maxCount.
// Only names matching prefix and suffix are considered. Artifacts without a
// modification time sort first and are evicted first.
func PlanEviction(existing []domain.RemoteArtifact, prefix string, suffix string, maxCount int) (domain.RetentionPlan, error) {
	if maxCount <= 0 {
		return domain.RetentionPlan{}, domain.ErrInvalidRetention
	}

	backups := make([]domain.RemoteArtifact, 0, len(existing))
	for _, artifact := range existing {
		if strings.HasPrefix(artifact.Name, prefix) && strings.HasSuffix(artifact.Name, suffix) {
			backups = append(backups, artifact)
		}
	}

	slices.SortStableFunc(backups, func(a, b domain.RemoteArtifact) int {
		return a.ModTime().Compare(b.ModTime())
	})

	var plan domain.RetentionPlan
	for len(backups) >= maxCount {
		plan.ToDelete = append(plan.ToDelete, backups[0])
		backups = backups[1:]
	}

	return plan, nil
}
