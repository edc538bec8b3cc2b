// Package catalog ships the default course list the bot starts with.
package catalog

import (
	"context"
	"fmt"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/store"
)

// DefaultCourses is the seed catalog. IDs are stable so callback tokens in
// old messages keep working across restarts; note several contain the token
// delimiter, which the router's grammar must survive.
func DefaultCourses() []*domain.Course {
	return []*domain.Course{
		{ID: "math_analysis_1", Code: "MAA101", Name: "Analysis I", Category: "Mathematics"},
		{ID: "math_algebra_1", Code: "MAA102", Name: "Linear Algebra", Category: "Mathematics"},
		{ID: "math_probability", Code: "MAA203", Name: "Probability Theory", Category: "Mathematics"},
		{ID: "math_statistics", Code: "MAA204", Name: "Statistics", Category: "Mathematics"},
		{ID: "math_topology", Code: "MAA301", Name: "Topology", Category: "Mathematics"},
		{ID: "math_pde", Code: "MAA305", Name: "Partial Differential Equations", Category: "Mathematics"},
		{ID: "cs_programming", Code: "CSE101", Name: "Computer Programming", Category: "Computer Science"},
		{ID: "cs_algorithms", Code: "CSE103", Name: "Algorithms", Category: "Computer Science"},
		{ID: "cs_databases", Code: "CSE204", Name: "Database Systems", Category: "Computer Science"},
		{ID: "cs_networks", Code: "CSE305", Name: "Computer Networks", Category: "Computer Science"},
		{ID: "cs_machine_learning", Code: "CSE306", Name: "Machine Learning", Category: "Computer Science"},
		{ID: "phy_mechanics", Code: "PHY101", Name: "Classical Mechanics", Category: "Physics"},
		{ID: "phy_quantum", Code: "PHY305", Name: "Quantum Physics", Category: "Physics"},
		{ID: "phy_statistical", Code: "PHY306", Name: "Statistical Physics", Category: "Physics"},
		{ID: "eco_micro", Code: "ECO101", Name: "Microeconomics", Category: "Economics"},
		{ID: "eco_macro", Code: "ECO102", Name: "Macroeconomics", Category: "Economics"},
		{ID: "hum_philosophy", Code: "HUM101", Name: "Philosophy of Science", Category: "Humanities"},
		{ID: "hum_ethics", Code: "HUM202", Name: "Ethics and Technology", Category: "Humanities"},
	}
}

// Seed inserts the default catalog entries that are not present yet.
func Seed(ctx context.Context, repo store.Repository) error {
	if err := repo.SeedCourses(ctx, DefaultCourses()); err != nil {
		return fmt.Errorf("seed default catalog: %w", err)
	}
	return nil
}
