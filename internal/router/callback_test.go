package router

import (
	"reflect"
	"testing"
)

func TestMatchExact(t *testing.T) {
	m := matchExact("submit")

	if _, ok := m("submit"); !ok {
		t.Error("exact token rejected")
	}
	for _, token := range []string{"submit_", "submitx", "sub", ""} {
		if _, ok := m(token); ok {
			t.Errorf("matchExact accepted %q", token)
		}
	}
}

func TestMatchPrefix(t *testing.T) {
	m := matchPrefix("course_")

	// IDs may contain the delimiter; everything after the prefix is one arg.
	args, ok := m("course_math_101")
	if !ok || !reflect.DeepEqual(args, []string{"math_101"}) {
		t.Errorf("m(course_math_101) = %v, %v", args, ok)
	}
	if _, ok := m("course_"); ok {
		t.Error("matchPrefix accepted an empty argument")
	}
	if _, ok := m("review_math_101"); ok {
		t.Error("matchPrefix accepted a different action")
	}
}

func TestMatchPaginated(t *testing.T) {
	m := matchPaginated("browse_")

	args, ok := m("browse_MATH_p_2")
	if !ok || !reflect.DeepEqual(args, []string{"MATH", "2"}) {
		t.Errorf("m(browse_MATH_p_2) = %v, %v", args, ok)
	}

	// The page marker is found from the right so `_p_` inside the argument
	// does not split it early.
	args, ok = m("browse_comp_p_arch_p_1")
	if !ok || !reflect.DeepEqual(args, []string{"comp_p_arch", "1"}) {
		t.Errorf("m(browse_comp_p_arch_p_1) = %v, %v", args, ok)
	}

	for _, token := range []string{"browse_MATH", "browse_MATH_p_", "browse_MATH_p_x", "browse__p_2"} {
		if _, ok := m(token); ok {
			t.Errorf("matchPaginated accepted %q", token)
		}
	}
}

func TestMatchExactPaginated(t *testing.T) {
	m := matchExactPaginated("my_reviews")

	args, ok := m("my_reviews_p_3")
	if !ok || !reflect.DeepEqual(args, []string{"3"}) {
		t.Errorf("m(my_reviews_p_3) = %v, %v", args, ok)
	}
	for _, token := range []string{"my_reviews", "my_reviews_p_", "my_reviews_p_x"} {
		if _, ok := m(token); ok {
			t.Errorf("matchExactPaginated accepted %q", token)
		}
	}
}

func TestMatchRating(t *testing.T) {
	m := matchRating("rating_")

	args, ok := m("rating_overall_4")
	if !ok || !reflect.DeepEqual(args, []string{"overall", "4"}) {
		t.Errorf("m(rating_overall_4) = %v, %v", args, ok)
	}
	for _, token := range []string{"rating_overall", "rating_overall_0", "rating_overall_6", "rating_overall_44"} {
		if _, ok := m(token); ok {
			t.Errorf("matchRating accepted %q", token)
		}
	}
}

func TestMatchIDRating(t *testing.T) {
	m := matchIDRating("set_rating_")

	// The review ID carries delimiters; the dimension and digit are parsed
	// greedily from the right.
	args, ok := m("set_rating_rev_abc_123_quality_5")
	if !ok || !reflect.DeepEqual(args, []string{"rev_abc_123", "quality", "5"}) {
		t.Errorf("m(set_rating_rev_abc_123_quality_5) = %v, %v", args, ok)
	}
	for _, token := range []string{"set_rating_quality_5", "set_rating_r1_quality_9", "set_rating_r1_quality"} {
		if _, ok := m(token); ok {
			t.Errorf("matchIDRating accepted %q", token)
		}
	}
}

func TestMatchDirectionID(t *testing.T) {
	m := matchDirectionID("vote_")

	args, ok := m("vote_up_rev_abc_123")
	if !ok || !reflect.DeepEqual(args, []string{"up", "rev_abc_123"}) {
		t.Errorf("m(vote_up_rev_abc_123) = %v, %v", args, ok)
	}
	args, ok = m("vote_down_r1")
	if !ok || !reflect.DeepEqual(args, []string{"down", "r1"}) {
		t.Errorf("m(vote_down_r1) = %v, %v", args, ok)
	}
	for _, token := range []string{"vote_sideways_r1", "vote_up_", "vote_up"} {
		if _, ok := m(token); ok {
			t.Errorf("matchDirectionID accepted %q", token)
		}
	}
}
