package service

// Point values for reading achievements.
const (
	PointsBookCompleted  = 100
	PointsHalfwayReached = 25
	PointsPerRatingStar  = 10

	pointsPerLevel = 250
)

// LevelForPoints maps a cumulative point balance to a level, starting at 1.
func LevelForPoints(points int) int {
	if points < 0 {
		return 1
	}
	return points/pointsPerLevel + 1
}
