package router

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
)

// stars renders a 1-5 rating as a filled/empty star bar.
func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > domain.MaxRating {
		n = domain.MaxRating
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", domain.MaxRating-n)
}

func mainMenuKeyboard() [][]Button {
	return [][]Button{
		{{Label: "Browse courses", Callback: "menu_browse"}},
		{{Label: "My reviews", Callback: "my_reviews"}},
	}
}

func categoryKeyboard(categories []string) [][]Button {
	rows := make([][]Button, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []Button{{Label: c, Callback: "browse_" + c}})
	}
	return rows
}

func courseListKeyboard(courses []*domain.Course, category string, page int, hasMore bool) [][]Button {
	rows := make([][]Button, 0, len(courses)+1)
	for _, c := range courses {
		rows = append(rows, []Button{{
			Label:    c.Code + " — " + c.Name,
			Callback: "course_" + c.ID,
		}})
	}

	var nav []Button
	if page > 0 {
		nav = append(nav, Button{Label: "‹ Prev", Callback: pageToken("browse_"+category, page-1)})
	}
	if hasMore {
		nav = append(nav, Button{Label: "Next ›", Callback: pageToken("browse_"+category, page+1)})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []Button{{Label: "« Menu", Callback: "menu"}})
	return rows
}

func pageToken(prefix string, page int) string {
	return prefix + "_p_" + strconv.Itoa(page)
}

func courseKeyboard(courseID, category string, page int, hasMore bool) [][]Button {
	rows := [][]Button{
		{{Label: "Write a review", Callback: "review_" + courseID}},
	}

	var nav []Button
	if page > 0 {
		nav = append(nav, Button{Label: "‹ Prev", Callback: pageToken("reviews_"+courseID, page-1)})
	}
	if hasMore {
		nav = append(nav, Button{Label: "Next ›", Callback: pageToken("reviews_"+courseID, page+1)})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	if category != "" {
		rows = append(rows, []Button{{Label: "‹ Back", Callback: "browse_" + category}})
	}
	rows = append(rows, []Button{{Label: "« Menu", Callback: "menu"}})
	return rows
}

func formatCourseHeader(course *domain.Course, summary *domain.RatingSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s\n", course.Code, course.Name)
	if summary.ReviewCount == 0 {
		b.WriteString("No reviews yet. Be the first!\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%d review(s)\n", summary.ReviewCount)
	fmt.Fprintf(&b, "Overall %.1f · Quality %.1f · Difficulty %.1f\n",
		summary.AvgOverall, summary.AvgQuality, summary.AvgDifficulty)
	return b.String()
}

func formatReview(review *domain.Review, author string, up, down int) string {
	var b strings.Builder
	if review.Anonymous || author == "" {
		author = "Anonymous"
	}
	fmt.Fprintf(&b, "%s\n", author)
	fmt.Fprintf(&b, "Overall %s  Quality %s  Difficulty %s\n",
		stars(review.Overall), stars(review.Quality), stars(review.Difficulty))
	if review.Text != "" {
		fmt.Fprintf(&b, "%s\n", review.Text)
	}
	fmt.Fprintf(&b, "👍 %d  👎 %d\n", up, down)
	return b.String()
}

func voteKeyboard(reviewID string) []Button {
	return []Button{
		{Label: "👍", Callback: "vote_up_" + reviewID},
		{Label: "👎", Callback: "vote_down_" + reviewID},
	}
}

func formatDraft(d *domain.ReviewDraft) string {
	var b strings.Builder
	b.WriteString("Your review so far:\n")
	for _, dim := range domain.Dimensions {
		v := d.Rating(dim)
		if v == 0 {
			fmt.Fprintf(&b, "%s: not set\n", dim)
		} else {
			fmt.Fprintf(&b, "%s: %s\n", dim, stars(v))
		}
	}
	if d.Text != "" {
		fmt.Fprintf(&b, "Text: %s\n", d.Text)
	} else {
		b.WriteString("Text: (none — send a message to add one)\n")
	}
	if d.Anonymous {
		b.WriteString("Posting anonymously\n")
	} else {
		b.WriteString("Posting with your name\n")
	}
	return b.String()
}

// draftKeyboard renders the rating grid plus the draft actions. tokenFor
// builds the rating token for a dimension/value pair, so the same keyboard
// serves both drafting (rating_…) and editing (set_rating_<id>_…).
func draftKeyboard(tokenFor func(dim domain.Dimension, value int) string, extra ...[]Button) [][]Button {
	rows := make([][]Button, 0, len(domain.Dimensions)+len(extra))
	for _, dim := range domain.Dimensions {
		row := make([]Button, 0, domain.MaxRating)
		for v := domain.MinRating; v <= domain.MaxRating; v++ {
			row = append(row, Button{
				Label:    fmt.Sprintf("%c%d", strings.ToUpper(string(dim))[0], v),
				Callback: tokenFor(dim, v),
			})
		}
		rows = append(rows, row)
	}
	return append(rows, extra...)
}

func draftActions() [][]Button {
	return [][]Button{
		{{Label: "Skip text", Callback: "text_skip"}, {Label: "Anonymous on/off", Callback: "anon_toggle"}},
		{{Label: "Submit", Callback: "submit"}, {Label: "Cancel", Callback: "cancel"}},
	}
}

func draftRatingToken(dim domain.Dimension, value int) string {
	return fmt.Sprintf("rating_%s_%d", dim, value)
}

func editRatingToken(reviewID string) func(dim domain.Dimension, value int) string {
	return func(dim domain.Dimension, value int) string {
		return fmt.Sprintf("set_rating_%s_%s_%d", reviewID, dim, value)
	}
}

func editActions(reviewID string) [][]Button {
	return [][]Button{
		{{Label: "Edit text", Callback: "edit_text_" + reviewID}, {Label: "Anonymous on/off", Callback: "anon_toggle"}},
		{{Label: "Save", Callback: "submit"}, {Label: "Delete", Callback: "delete_" + reviewID}},
		{{Label: "Cancel", Callback: "cancel"}},
	}
}
