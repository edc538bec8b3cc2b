package domain

// Course is a catalog entry users browse and review.
type Course struct {
	ID       string
	Code     string
	Name     string
	Category string
}

// RatingSummary aggregates the live reviews of one course.
type RatingSummary struct {
	CourseID      string
	ReviewCount   int
	AvgOverall    float64
	AvgQuality    float64
	AvgDifficulty float64
}
