package router

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
)

func (r *Router) handleReviewBegin(req *request, args []string) (*Response, error) {
	courseID := args[0]

	course, err := r.repo.GetCourse(req.ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", courseID, domain.ErrNotFound)
	}

	// One live review per (user, course): offer editing instead.
	existing, err := r.repo.GetUserReviewForCourse(req.ctx, req.userID(), courseID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return &Response{
			Class: ClassValidationError,
			Text:  fmt.Sprintf("You already reviewed %s. You can edit your existing review instead.", course.Code),
			Keyboard: [][]Button{
				{{Label: "Edit my review", Callback: "edit_" + existing.ID}},
				{{Label: "« Menu", Callback: "menu"}},
			},
		}, nil
	}

	if err := r.transition(req, domain.StateDrafting, domain.SessionContext{
		Category: course.Category,
		CourseID: courseID,
	}); err != nil {
		return nil, err
	}

	draft, err := r.drafts.Begin(req.ctx, req.userID(), courseID, "")
	if err != nil {
		return nil, fmt.Errorf("begin draft: %w", err)
	}

	text := fmt.Sprintf("Reviewing %s — %s.\nRate each aspect, then send a message for the text.\n\n%s",
		course.Code, course.Name, formatDraft(draft))
	return success(text, draftKeyboard(draftRatingToken, draftActions()...)...), nil
}

func (r *Router) handleDraftRating(req *request, args []string) (*Response, error) {
	if req.state() != domain.StateDrafting {
		return nil, fmt.Errorf("%w: rating tap outside drafting", domain.ErrInvalidTransition)
	}

	dim := domain.Dimension(args[0])
	if !domain.ValidDimension(dim) {
		return invalid("Unknown rating dimension."), nil
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return invalid("Ratings go from 1 to 5."), nil
	}

	if err := r.drafts.SetRating(req.userID(), dim, value); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoDraft):
			return nil, err
		case errors.Is(err, domain.ErrValidation):
			return invalid("Ratings go from 1 to 5."), nil
		}
		return nil, err
	}

	if err := r.transition(req, domain.StateDrafting, req.sessionContext()); err != nil {
		return nil, err
	}

	return r.draftSummary(req)
}

func (r *Router) handleDraftText(req *request) (*Response, error) {
	if err := r.drafts.SetText(req.userID(), req.event.Text); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoDraft):
			return nil, err
		case errors.Is(err, domain.ErrValidation):
			return invalid(fmt.Sprintf("That text is too long — reviews are capped at %d characters.", domain.MaxReviewText)), nil
		}
		return nil, err
	}

	if err := r.transition(req, domain.StateDrafting, req.sessionContext()); err != nil {
		return nil, err
	}

	return r.draftSummary(req)
}

func (r *Router) handleTextSkip(req *request, _ []string) (*Response, error) {
	if err := r.drafts.SetText(req.userID(), ""); err != nil {
		return nil, err
	}
	return r.draftSummary(req)
}

func (r *Router) handleAnonToggle(req *request, _ []string) (*Response, error) {
	if _, err := r.drafts.ToggleAnonymous(req.userID()); err != nil {
		return nil, err
	}
	return r.draftSummary(req)
}

// draftSummary re-renders the draft with the keyboard matching the current
// mode: the drafting grid or the editing grid for a sourced draft.
func (r *Router) draftSummary(req *request) (*Response, error) {
	draft := r.drafts.Get(req.userID())
	if draft == nil {
		return nil, domain.ErrNoDraft
	}

	if draft.SourceReviewID != "" {
		return success(formatDraft(draft),
			draftKeyboard(editRatingToken(draft.SourceReviewID), editActions(draft.SourceReviewID)...)...), nil
	}
	return success(formatDraft(draft), draftKeyboard(draftRatingToken, draftActions()...)...), nil
}

func (r *Router) handleSubmit(req *request, _ []string) (*Response, error) {
	review, err := r.drafts.Commit(req.ctx, req.userID())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			// Draft retained; the user can fix the field and resubmit.
			return invalid(err.Error()), nil
		case errors.Is(err, domain.ErrDuplicateReview):
			return r.duplicateReviewOffer(req)
		}
		return nil, fmt.Errorf("commit draft: %w", err)
	}

	// Explicit completion clears the session entirely.
	if err := r.reset(req); err != nil {
		return nil, err
	}

	author := ""
	if !review.Anonymous {
		if profile, err := r.repo.GetProfile(req.ctx, req.userID()); err == nil && profile != nil {
			author = profile.DisplayName
		}
	}

	return success(fmt.Sprintf("Review saved. Thanks for helping others pick their courses!\n\n%s",
		formatReview(review, author, 0, 0)), mainMenuKeyboard()...), nil
}

// duplicateReviewOffer answers a submit that lost the race against an
// existing review for the same course: the draft is kept, and the response
// offers editing the review that won, same as handleReviewBegin does.
func (r *Router) duplicateReviewOffer(req *request) (*Response, error) {
	text := "You already have a review for this course. Edit it instead."

	draft := r.drafts.Get(req.userID())
	if draft == nil {
		return invalid(text), nil
	}
	existing, err := r.repo.GetUserReviewForCourse(req.ctx, req.userID(), draft.CourseID)
	if err != nil {
		return nil, fmt.Errorf("find existing review: %w", err)
	}
	if existing == nil {
		return invalid(text), nil
	}

	return &Response{
		Class: ClassValidationError,
		Text:  text,
		Keyboard: [][]Button{
			{{Label: "Edit my review", Callback: "edit_" + existing.ID}},
			{{Label: "« Menu", Callback: "menu"}},
		},
	}, nil
}

func (r *Router) handleCancel(req *request, _ []string) (*Response, error) {
	if err := r.reset(req); err != nil {
		return nil, err
	}
	return success("Cancelled. Nothing was saved.", mainMenuKeyboard()...), nil
}
