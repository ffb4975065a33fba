package progression

// PointsPerLevel is the linear level curve step. Level is always derived
// from points; it is never stored, so it cannot drift.
const PointsPerLevel = 200

// LevelForPoints returns the level for a points total: floor(points/200)+1.
func LevelForPoints(points int64) int {
	if points < 0 {
		return 1
	}
	return int(points/PointsPerLevel) + 1
}

// PointsForLevel returns the points threshold where a level begins.
func PointsForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(level-1) * PointsPerLevel
}

// ProgressPct returns progress toward the next level (0.0–100.0).
func ProgressPct(points int64) float64 {
	if points < 0 {
		return 0
	}
	within := points % PointsPerLevel
	return float64(within) / float64(PointsPerLevel) * 100.0
}
