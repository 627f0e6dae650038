package testutil

import "testing"

// Scenario steps run as nested subtests named "Given ...", "When ...",
// "Then ..." and "And ...". Each returns whether its subtest passed.
// Then and And are skipped once the enclosing step has failed, so a broken
// precondition reports one failure instead of a cascade of assertions.

func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "Given", desc, false, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "When", desc, false, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "Then", desc, true, fn)
}

// And continues the previous outcome step.
func And(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "And", desc, true, fn)
}

func step(t *testing.T, keyword, desc string, outcome bool, fn func(t *testing.T)) bool {
	t.Helper()
	if outcome && t.Failed() {
		return t.Run(keyword+" "+desc, func(t *testing.T) {
			t.Skip("skipped: an earlier step failed")
		})
	}
	return t.Run(keyword+" "+desc, fn)
}
