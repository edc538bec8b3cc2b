package router

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
)

func (r *Router) handleMyReviews(req *request, _ []string) (*Response, error) {
	return r.myReviewsPage(req, 0)
}

func (r *Router) handleMyReviewsPage(req *request, args []string) (*Response, error) {
	page, err := strconv.Atoi(args[0])
	if err != nil || page < 0 {
		return invalid("That page does not exist."), nil
	}
	return r.myReviewsPage(req, page)
}

func (r *Router) myReviewsPage(req *request, page int) (*Response, error) {
	reviews, err := r.repo.ListUserReviews(req.ctx, req.userID(), reviewPageSize+1, page*reviewPageSize)
	if err != nil {
		return nil, fmt.Errorf("list own reviews: %w", err)
	}
	hasMore := len(reviews) > reviewPageSize
	if hasMore {
		reviews = reviews[:reviewPageSize]
	}

	if len(reviews) == 0 && page == 0 {
		return success("You have not written any reviews yet.", mainMenuKeyboard()...), nil
	}

	if err := r.transition(req, domain.StateViewingOwnReviews, domain.SessionContext{Page: page}); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Your reviews (page %d):\n", page+1)
	keyboard := make([][]Button, 0, len(reviews)+2)
	for _, review := range reviews {
		course, err := r.repo.GetCourse(req.ctx, review.CourseID)
		if err != nil {
			return nil, fmt.Errorf("get course: %w", err)
		}
		label := review.CourseID
		if course != nil {
			label = course.Code
		}
		text += fmt.Sprintf("\n%s — %s %s %s\n", label,
			stars(review.Overall), stars(review.Quality), stars(review.Difficulty))
		keyboard = append(keyboard, []Button{{Label: "Edit " + label, Callback: "edit_" + review.ID}})
	}

	var nav []Button
	if page > 0 {
		nav = append(nav, Button{Label: "‹ Prev", Callback: pageToken("my_reviews", page-1)})
	}
	if hasMore {
		nav = append(nav, Button{Label: "Next ›", Callback: pageToken("my_reviews", page+1)})
	}
	if len(nav) > 0 {
		keyboard = append(keyboard, nav)
	}
	keyboard = append(keyboard, []Button{{Label: "« Menu", Callback: "menu"}})

	return success(text, keyboard...), nil
}

func (r *Router) handleEditBegin(req *request, args []string) (*Response, error) {
	reviewID := args[0]

	review, err := r.repo.GetReview(req.ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review == nil || review.UserID != req.userID() {
		// Editing someone else's review is indistinguishable from a
		// missing one from the user's point of view.
		return nil, fmt.Errorf("review %s: %w", reviewID, domain.ErrNotFound)
	}

	if err := r.transition(req, domain.StateEditingReview, domain.SessionContext{
		CourseID: review.CourseID,
		ReviewID: reviewID,
	}); err != nil {
		return nil, err
	}

	draft, err := r.drafts.Begin(req.ctx, req.userID(), review.CourseID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("begin edit draft: %w", err)
	}

	text := "Editing your review. Adjust any field, then save.\n\n" + formatDraft(draft)
	return success(text, draftKeyboard(editRatingToken(reviewID), editActions(reviewID)...)...), nil
}

func (r *Router) handleEditRating(req *request, args []string) (*Response, error) {
	reviewID := args[0]

	draft := r.drafts.Get(req.userID())
	if draft == nil || draft.SourceReviewID != reviewID {
		return nil, fmt.Errorf("rating tap for review %s: %w", reviewID, domain.ErrNoDraft)
	}

	dim := domain.Dimension(args[1])
	if !domain.ValidDimension(dim) {
		return invalid("Unknown rating dimension."), nil
	}
	value, err := strconv.Atoi(args[2])
	if err != nil {
		return invalid("Ratings go from 1 to 5."), nil
	}

	if err := r.drafts.SetRating(req.userID(), dim, value); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return invalid("Ratings go from 1 to 5."), nil
		}
		return nil, err
	}

	if err := r.transition(req, domain.StateEditingReview, req.sessionContext()); err != nil {
		return nil, err
	}

	return r.draftSummary(req)
}

func (r *Router) handleEditText(req *request, args []string) (*Response, error) {
	reviewID := args[0]

	draft := r.drafts.Get(req.userID())
	if draft == nil || draft.SourceReviewID != reviewID {
		return nil, fmt.Errorf("edit text for review %s: %w", reviewID, domain.ErrNoDraft)
	}

	if err := r.transition(req, domain.StateEditingReviewText, req.sessionContext()); err != nil {
		return nil, err
	}

	return success(fmt.Sprintf("Send the new review text (up to %d characters).", domain.MaxReviewText)), nil
}

func (r *Router) handleEditTextInput(req *request) (*Response, error) {
	if err := r.drafts.SetText(req.userID(), req.event.Text); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoDraft):
			return nil, err
		case errors.Is(err, domain.ErrValidation):
			return invalid(fmt.Sprintf("That text is too long — reviews are capped at %d characters.", domain.MaxReviewText)), nil
		}
		return nil, err
	}

	if err := r.transition(req, domain.StateEditingReview, req.sessionContext()); err != nil {
		return nil, err
	}

	return r.draftSummary(req)
}

func (r *Router) handleDelete(req *request, args []string) (*Response, error) {
	reviewID := args[0]
	return success("Delete this review? This cannot be undone.", [][]Button{
		{{Label: "Yes, delete", Callback: "confirm_delete_" + reviewID}},
		{{Label: "Keep it", Callback: "edit_" + reviewID}},
	}...), nil
}

func (r *Router) handleConfirmDelete(req *request, args []string) (*Response, error) {
	reviewID := args[0]

	if err := r.repo.SoftDeleteReview(req.ctx, reviewID, req.userID()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("delete review %s: %w", reviewID, err)
		}
		return nil, fmt.Errorf("delete review: %w", err)
	}

	if err := r.reset(req); err != nil {
		return nil, err
	}

	return success("Your review was deleted.", mainMenuKeyboard()...), nil
}

func (r *Router) handleVote(req *request, args []string) (*Response, error) {
	direction := domain.VoteDirection(args[0])
	reviewID := args[1]

	outcome, err := r.repo.CastVote(req.ctx, reviewID, req.userID(), direction)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfVote):
			return invalid("You cannot vote on your own review."), nil
		case errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("vote on review %s: %w", reviewID, err)
		}
		return nil, fmt.Errorf("cast vote: %w", err)
	}

	up, down, err := r.repo.CountVotes(req.ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}

	var text string
	switch outcome {
	case domain.VoteRemoved:
		text = "Vote removed."
	case domain.VoteReplaced:
		text = "Vote changed."
	default:
		text = "Vote recorded."
	}
	return success(fmt.Sprintf("%s 👍 %d · 👎 %d", text, up, down)), nil
}
