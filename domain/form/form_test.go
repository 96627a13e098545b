package form_test

import (
	"testing"

	"github.com/artpar/formdesk/domain/form"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to form.Status
		want     bool
	}{
		{form.StatusDraft, form.StatusSubmitted, true},
		{form.StatusSubmitted, form.StatusApproved, true},
		{form.StatusSubmitted, form.StatusRejected, true},
		{form.StatusDraft, form.StatusApproved, false},
		{form.StatusDraft, form.StatusRejected, false},
		{form.StatusSubmitted, form.StatusDraft, false},
		{form.StatusApproved, form.StatusSubmitted, false},
		{form.StatusRejected, form.StatusSubmitted, false},
		{form.StatusApproved, form.StatusRejected, false},
		{form.StatusDraft, form.StatusDraft, false},
	}

	for _, tc := range cases {
		if got := form.CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []form.Status{form.StatusDraft, form.StatusSubmitted, form.StatusApproved, form.StatusRejected} {
		if !form.ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false", s)
		}
	}
	for _, s := range []form.Status{"", "archived", "Draft"} {
		if form.ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = true", s)
		}
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range []form.Category{form.CategorySales, form.CategorySupport, form.CategoryPartnership, form.CategoryOther} {
		if !form.ValidCategory(c) {
			t.Errorf("ValidCategory(%s) = false", c)
		}
	}
	for _, c := range []form.Category{"", "hr", "Sales"} {
		if form.ValidCategory(c) {
			t.Errorf("ValidCategory(%s) = true", c)
		}
	}
}
