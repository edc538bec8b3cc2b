package router

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
)

const maxProfileField = 64

func (r *Router) handleStart(req *request) (*Response, error) {
	// Start always resets: any dangling draft or stale state is dropped.
	if err := r.reset(req); err != nil {
		return nil, err
	}

	profile, err := r.repo.GetProfile(req.ctx, req.userID())
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if profile == nil || !profile.Complete() {
		if err := r.transition(req, domain.StateCollectingName, domain.SessionContext{}); err != nil {
			return nil, err
		}
		return success("Welcome to PickYourCourses! Before we begin, what name should your reviews show?"), nil
	}

	if err := r.sessions.Set(req.ctx, req.userID(), domain.StateRoot, domain.SessionContext{}); err != nil {
		return nil, err
	}
	return success(fmt.Sprintf("Welcome back, %s!", profile.DisplayName), mainMenuKeyboard()...), nil
}

func (r *Router) handleHelp(_ *request) (*Response, error) {
	return success(strings.Join([]string{
		"I help you browse and review courses.",
		"",
		"/start — back to the main menu",
		"/help — this message",
		"",
		"Everything else works through the buttons under each message.",
	}, "\n")), nil
}

func (r *Router) handleProfileName(req *request) (*Response, error) {
	name := strings.TrimSpace(req.event.Text)
	if name == "" || utf8.RuneCountInString(name) > maxProfileField {
		return invalid(fmt.Sprintf("Please send a name between 1 and %d characters.", maxProfileField)), nil
	}

	if err := r.saveProfile(req, func(p *domain.UserProfile) { p.DisplayName = name }); err != nil {
		return nil, err
	}

	if err := r.transition(req, domain.StateCollectingTag, domain.SessionContext{}); err != nil {
		return nil, err
	}
	return success("Nice to meet you! Now send a short tag for your profile (e.g. your promotion or program)."), nil
}

func (r *Router) handleProfileTag(req *request) (*Response, error) {
	tag := strings.TrimSpace(req.event.Text)
	if tag == "" || utf8.RuneCountInString(tag) > maxProfileField {
		return invalid(fmt.Sprintf("Please send a tag between 1 and %d characters.", maxProfileField)), nil
	}

	if err := r.saveProfile(req, func(p *domain.UserProfile) { p.Tag = tag }); err != nil {
		return nil, err
	}

	if err := r.sessions.Set(req.ctx, req.userID(), domain.StateRoot, domain.SessionContext{}); err != nil {
		return nil, err
	}
	return success("All set! What would you like to do?", mainMenuKeyboard()...), nil
}

func (r *Router) saveProfile(req *request, mutate func(*domain.UserProfile)) error {
	profile, err := r.repo.GetProfile(req.ctx, req.userID())
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		now := time.Now()
		profile = &domain.UserProfile{UserID: req.userID(), CreatedAt: now, UpdatedAt: now}
	}
	mutate(profile)
	if err := r.repo.UpsertProfile(req.ctx, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
