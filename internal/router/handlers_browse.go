package router

import (
	"fmt"
	"strconv"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
)

func (r *Router) handleMenu(req *request, _ []string) (*Response, error) {
	if err := r.sessions.Set(req.ctx, req.userID(), domain.StateRoot, domain.SessionContext{}); err != nil {
		return nil, err
	}
	return success("What would you like to do?", mainMenuKeyboard()...), nil
}

func (r *Router) handleBrowseCategories(req *request, _ []string) (*Response, error) {
	categories, err := r.repo.ListCategories(req.ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		return success("The course catalog is empty for now."), nil
	}
	return success("Pick a category:", categoryKeyboard(categories)...), nil
}

func (r *Router) handleBrowse(req *request, args []string) (*Response, error) {
	return r.browsePage(req, args[0], 0)
}

func (r *Router) handleBrowsePage(req *request, args []string) (*Response, error) {
	page, err := strconv.Atoi(args[1])
	if err != nil || page < 0 {
		return invalid("That page does not exist."), nil
	}
	return r.browsePage(req, args[0], page)
}

func (r *Router) browsePage(req *request, category string, page int) (*Response, error) {
	// Fetch one extra row to know whether a next page exists.
	courses, err := r.repo.ListCoursesByCategory(req.ctx, category, coursePageSize+1, page*coursePageSize)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if len(courses) == 0 && page == 0 {
		return invalid("No courses in that category."), nil
	}

	hasMore := len(courses) > coursePageSize
	if hasMore {
		courses = courses[:coursePageSize]
	}

	if err := r.transition(req, domain.StateBrowsing, domain.SessionContext{Category: category, Page: page}); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Courses in %s (page %d):", category, page+1)
	return success(text, courseListKeyboard(courses, category, page, hasMore)...), nil
}

func (r *Router) handleCourse(req *request, args []string) (*Response, error) {
	return r.coursePage(req, args[0], 0)
}

func (r *Router) handleReviewsPage(req *request, args []string) (*Response, error) {
	page, err := strconv.Atoi(args[1])
	if err != nil || page < 0 {
		return invalid("That page does not exist."), nil
	}
	return r.coursePage(req, args[0], page)
}

func (r *Router) coursePage(req *request, courseID string, page int) (*Response, error) {
	course, err := r.repo.GetCourse(req.ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", courseID, domain.ErrNotFound)
	}

	summary, err := r.repo.GetRatingSummary(req.ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}

	reviews, err := r.repo.ListCourseReviews(req.ctx, courseID, reviewPageSize+1, page*reviewPageSize)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	hasMore := len(reviews) > reviewPageSize
	if hasMore {
		reviews = reviews[:reviewPageSize]
	}

	if err := r.transition(req, domain.StateViewingReview, domain.SessionContext{
		Category: course.Category,
		CourseID: courseID,
		Page:     page,
	}); err != nil {
		return nil, err
	}

	text := formatCourseHeader(course, summary)
	keyboard := courseKeyboard(courseID, course.Category, page, hasMore)

	for i, review := range reviews {
		author := ""
		if !review.Anonymous {
			if profile, err := r.repo.GetProfile(req.ctx, review.UserID); err == nil && profile != nil {
				author = profile.DisplayName
			}
		}
		up, down, err := r.repo.CountVotes(req.ctx, review.ID)
		if err != nil {
			return nil, fmt.Errorf("count votes: %w", err)
		}
		text += fmt.Sprintf("\n#%d %s", i+1, formatReview(review, author, up, down))

		row := voteKeyboard(review.ID)
		for j := range row {
			row[j].Label = fmt.Sprintf("#%d %s", i+1, row[j].Label)
		}
		keyboard = append(keyboard, row)
	}

	return success(text, keyboard...), nil
}
