package courseModel

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsValidFor(t *testing.T) {
	set := CachedQuestionSet{CourseId: "stats", Unit: 1, Fingerprint: "h1"}

	if !set.IsValidFor("h1") {
		t.Error("set should be valid for its own fingerprint")
	}
	if set.IsValidFor("h2") {
		t.Error("set should be stale after the document changed")
	}
	if set.IsValidFor("") {
		t.Error("an empty fingerprint must never validate")
	}
	if set.Fingerprint != "h1" {
		t.Error("IsValidFor must not modify the stored set")
	}
}

func TestStudyErrorMatching(t *testing.T) {
	err := fmt.Errorf("listing units: %w", NewError(KindCourseNotFound, "course stats not found", nil))

	if !errors.Is(err, ErrCourseNotFound) {
		t.Error("wrapped error should match ErrCourseNotFound")
	}
	if errors.Is(err, ErrUnitNotFound) {
		t.Error("course error must not match ErrUnitNotFound")
	}
	if KindOf(err) != KindCourseNotFound {
		t.Errorf("KindOf got %s", KindOf(err))
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Error("plain errors should map to internal_error")
	}
}

func TestErrorKindStatusCode(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want int
	}{
		{KindCourseNotFound, 404},
		{KindUnitNotFound, 404},
		{KindInvalidInput, 400},
		{KindInternal, 500},
		{ErrorKind("unknown"), 500},
	}
	for _, tt := range tests {
		if got := tt.kind.StatusCode(); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.kind, got, tt.want)
		}
	}
}
