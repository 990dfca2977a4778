package domain_test

import (
	"strings"
	"testing"

	"go-talentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var allStatuses = []domain.ApplicationStatus{
	domain.StatusPending,
	domain.StatusInReview,
	domain.StatusAccepted,
	domain.StatusInterview,
	domain.StatusOffer,
	domain.StatusRejected,
}

func TestStatusTransitionTable(t *testing.T) {
	allowed := map[domain.ApplicationStatus][]domain.ApplicationStatus{
		domain.StatusPending:   {domain.StatusInReview, domain.StatusRejected},
		domain.StatusInReview:  {domain.StatusAccepted, domain.StatusRejected, domain.StatusInterview},
		domain.StatusAccepted:  {domain.StatusInterview, domain.StatusOffer},
		domain.StatusInterview: {domain.StatusOffer, domain.StatusRejected},
		domain.StatusOffer:     {},
		domain.StatusRejected:  {},
	}

	t.Run("Should allow exactly the pairs in the table", func(t *testing.T) {
		for _, from := range allStatuses {
			want := map[domain.ApplicationStatus]bool{}
			for _, to := range allowed[from] {
				want[to] = true
			}
			for _, to := range allStatuses {
				assert.Equal(t, want[to], from.CanTransitionTo(to), "from %s to %s", from, to)
			}
		}
	})

	t.Run("Should never allow a status to transition to itself", func(t *testing.T) {
		for _, s := range allStatuses {
			assert.False(t, s.CanTransitionTo(s), "self transition on %s", s)
		}
	})

	t.Run("Should treat offer and rejected as terminal", func(t *testing.T) {
		for _, s := range allStatuses {
			terminal := s == domain.StatusOffer || s == domain.StatusRejected
			assert.Equal(t, terminal, s.IsTerminal(), "terminal check on %s", s)
		}
	})

	t.Run("Should refuse transitions to values outside the enumeration", func(t *testing.T) {
		for _, s := range allStatuses {
			assert.False(t, s.CanTransitionTo("archived"))
		}
	})
}

func TestParseApplicationStatus(t *testing.T) {
	t.Run("Should accept every canonical status", func(t *testing.T) {
		for _, s := range allStatuses {
			parsed, ok := domain.ParseApplicationStatus(string(s))
			assert.True(t, ok)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("Should canonicalize the legacy rejection spelling", func(t *testing.T) {
		parsed, ok := domain.ParseApplicationStatus("rejection")
		assert.True(t, ok)
		assert.Equal(t, domain.StatusRejected, parsed)
	})

	t.Run("Should refuse anything else", func(t *testing.T) {
		for _, raw := range []string{"", "archived", "Pending", "IN_REVIEW", "pending "} {
			_, ok := domain.ParseApplicationStatus(raw)
			assert.False(t, ok, "parsed %q", raw)
		}
	})
}

func TestNewApplication(t *testing.T) {
	candidateID := uuid.New()
	jobID := uuid.New()

	t.Run("Should start pending with exactly one timeline entry", func(t *testing.T) {
		app := domain.NewApplication(candidateID, jobID, nil)

		assert.Equal(t, domain.StatusPending, app.Status)
		assert.Len(t, app.Timeline, 1)
		assert.Equal(t, "Application created with status pending", app.Timeline[0].Description)
		assert.Equal(t, candidateID, app.CandidateID)
		assert.Equal(t, jobID, app.JobID)
		assert.NotEqual(t, uuid.Nil, app.ID)
	})

	t.Run("Should raise the received event once", func(t *testing.T) {
		app := domain.NewApplication(candidateID, jobID, nil)

		events := app.PullEvents()
		assert.Len(t, events, 1)
		assert.Equal(t, "applications.received", events[0].Channel())
		assert.Empty(t, app.PullEvents())
	})

	t.Run("Should keep the submitted documents", func(t *testing.T) {
		docs := []domain.DocumentRef{{Name: "cv.pdf", URL: "https://bucket.example.com/cv.pdf"}}
		app := domain.NewApplication(candidateID, jobID, docs)
		assert.Len(t, app.Documents, 1)
	})
}

func TestTransition(t *testing.T) {
	newApp := func() *domain.Application {
		app := domain.NewApplication(uuid.New(), uuid.New(), nil)
		app.PullEvents()
		return app
	}

	t.Run("Should append one timeline entry naming both statuses", func(t *testing.T) {
		app := newApp()

		assert.True(t, app.Transition(domain.StatusInReview))
		assert.Equal(t, domain.StatusInReview, app.Status)
		assert.Len(t, app.Timeline, 2)
		assert.Equal(t, "Status changed from pending to in_review", app.Timeline[1].Description)

		events := app.PullEvents()
		assert.Len(t, events, 1)
		assert.Equal(t, "applications.status_changed", events[0].Channel())
	})

	t.Run("Should leave the aggregate untouched on refusal", func(t *testing.T) {
		app := newApp()
		app.Transition(domain.StatusInReview)
		app.PullEvents()

		assert.False(t, app.Transition(domain.StatusOffer))
		assert.Equal(t, domain.StatusInReview, app.Status)
		assert.Len(t, app.Timeline, 2)
		assert.Empty(t, app.PullEvents())
	})

	t.Run("Should record the full path to an offer and then stop", func(t *testing.T) {
		app := newApp()

		for _, next := range []domain.ApplicationStatus{domain.StatusInReview, domain.StatusInterview, domain.StatusOffer} {
			assert.True(t, app.Transition(next))
		}
		assert.Equal(t, domain.StatusOffer, app.Status)
		assert.Len(t, app.Timeline, 4)

		assert.False(t, app.Transition(domain.StatusRejected))
		assert.Len(t, app.Timeline, 4)
	})

	t.Run("Should fold the recruiter comment into the entry", func(t *testing.T) {
		app := newApp()

		assert.True(t, app.TransitionWithReview(domain.StatusInReview, "Strong CV, move forward"))
		assert.Equal(t,
			"Status changed from pending to in_review. Recruiter review: Strong CV, move forward",
			app.Timeline[1].Description,
		)
	})

	t.Run("Should keep the entry plain when the comment is empty", func(t *testing.T) {
		app := newApp()

		assert.True(t, app.TransitionWithReview(domain.StatusInReview, ""))
		assert.False(t, strings.Contains(app.Timeline[1].Description, "Recruiter review"))
	})
}

func TestAttachDocumentToTimeline(t *testing.T) {
	t.Run("Should note the attachment on the timeline", func(t *testing.T) {
		app := domain.NewApplication(uuid.New(), uuid.New(), nil)

		app.AttachDocument(domain.DocumentRef{Name: "portfolio.pdf", URL: "https://bucket.example.com/p.pdf"})
		assert.Len(t, app.Documents, 1)
		assert.Len(t, app.Timeline, 2)
		assert.Equal(t, "Document attached: portfolio.pdf", app.Timeline[1].Description)
	})
}
