package matching

// IsEligible decides whether a job may be shown to a candidate at all,
// before any scoring work is spent on the pair. Rules in order:
// an inactive candidate sees nothing, and postings requiring more
// experience than the configured ceiling are never shown.
func IsEligible(c Candidate, j Job, cfg Config) bool {
	if c.Stage == StageInactive {
		return false
	}
	if j.MinExperienceMonths > cfg.ExperienceCeilingMonths {
		return false
	}
	return true
}
