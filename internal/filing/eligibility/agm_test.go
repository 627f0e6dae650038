package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluateAgmExtension_FirstAgm(t *testing.T) {
	in := AgmExtensionInput{
		Now:               date(2023, time.February, 1),
		GoodStanding:      true,
		FirstAgm:          true,
		IncorporationDate: date(2022, time.January, 1),
	}

	t.Run("eligible with due date 18 months after incorporation", func(t *testing.T) {
		got := EvaluateAgmExtension(in)
		assert.True(t, got.IsEligible)
		assert.Empty(t, got.Reason)
		assert.Equal(t, date(2023, time.July, 1), got.DueDate)
		assert.False(t, got.AlreadyExtended)
		assert.Equal(t, MaxExtensionMonths, got.ExtensionMonths)
		assert.Equal(t, date(2024, time.January, 1), got.ExtendedDueDate)
		assert.Equal(t, date(2023, time.July, 6), got.RequestDeadline)
	})

	t.Run("not in good standing is never eligible", func(t *testing.T) {
		notGood := in
		notGood.GoodStanding = false
		got := EvaluateAgmExtension(notGood)
		assert.False(t, got.IsEligible)
		assert.Equal(t, ReasonNotInGoodStanding, got.Reason)
	})

	t.Run("missing incorporation date", func(t *testing.T) {
		missing := in
		missing.IncorporationDate = time.Time{}
		got := EvaluateAgmExtension(missing)
		assert.False(t, got.IsEligible)
		assert.Equal(t, ReasonMissingFoundingDate, got.Reason)
	})

	t.Run("request accepted through the last grace day", func(t *testing.T) {
		late := in
		late.Now = time.Date(2023, time.July, 6, 23, 30, 0, 0, time.UTC)
		assert.True(t, EvaluateAgmExtension(late).IsEligible)

		tooLate := in
		tooLate.Now = date(2023, time.July, 7)
		got := EvaluateAgmExtension(tooLate)
		assert.False(t, got.IsEligible)
		assert.Equal(t, ReasonRequestWindowClosed, got.Reason)
		assert.Equal(t, date(2023, time.July, 1), got.DueDate)
	})

	t.Run("same input gives the same result", func(t *testing.T) {
		assert.Equal(t, EvaluateAgmExtension(in), EvaluateAgmExtension(in))
	})
}

func TestEvaluateAgmExtension_SubsequentAgm(t *testing.T) {
	base := AgmExtensionInput{
		Now:          date(2024, time.August, 1),
		GoodStanding: true,
		PrevAgmDate:  date(2023, time.June, 15),
	}

	tests := []struct {
		name         string
		approved     int
		now          time.Time
		wantEligible bool
		wantReason   Reason
		wantDue      time.Time
		wantMonths   int
		wantExtended time.Time
	}{
		{
			name:         "no previous extension",
			approved:     0,
			now:          base.Now,
			wantEligible: true,
			wantDue:      date(2024, time.September, 15),
			wantMonths:   6,
			wantExtended: date(2025, time.March, 15),
		},
		{
			name:         "one full extension already granted",
			approved:     6,
			now:          date(2025, time.January, 1),
			wantEligible: true,
			wantDue:      date(2025, time.March, 15),
			wantMonths:   6,
			wantExtended: date(2025, time.September, 15),
		},
		{
			name:         "partial allowance left",
			approved:     9,
			now:          date(2025, time.January, 1),
			wantEligible: true,
			wantDue:      date(2025, time.June, 15),
			wantMonths:   3,
			wantExtended: date(2025, time.September, 15),
		},
		{
			name:       "maximum already granted",
			approved:   12,
			now:        date(2025, time.January, 1),
			wantReason: ReasonMaximumExtensionReached,
			wantDue:    date(2025, time.September, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.TotalApprovedExtensionMonths = tt.approved
			in.Now = tt.now

			got := EvaluateAgmExtension(in)
			assert.Equal(t, tt.wantEligible, got.IsEligible)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, tt.wantDue, got.DueDate)
			assert.Equal(t, tt.wantMonths, got.ExtensionMonths)
			assert.Equal(t, tt.wantExtended, got.ExtendedDueDate)
			assert.Equal(t, tt.approved > 0, got.AlreadyExtended)
		})
	}

	t.Run("missing previous AGM date", func(t *testing.T) {
		in := base
		in.PrevAgmDate = time.Time{}
		got := EvaluateAgmExtension(in)
		assert.False(t, got.IsEligible)
		assert.Equal(t, ReasonMissingPriorAgmDate, got.Reason)
	})
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		from   time.Time
		months int
		want   time.Time
	}{
		{date(2022, time.January, 1), 18, date(2023, time.July, 1)},
		{date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{date(2022, time.August, 31), 18, date(2024, time.February, 29)},
		{date(2023, time.March, 31), -1, date(2023, time.February, 28)},
		{time.Date(2023, time.May, 10, 18, 45, 0, 0, time.UTC), 0, date(2023, time.May, 10)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AddMonths(tt.from, tt.months), "%s + %d", tt.from.Format(time.DateOnly), tt.months)
	}
}
