package domain_test

import (
	"testing"

	"go-talentflow-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestJobCloseReopen(t *testing.T) {
	t.Run("Should close an open posting and stamp the time", func(t *testing.T) {
		job := &domain.Job{Status: domain.JobOpen}

		assert.True(t, job.Close())
		assert.Equal(t, domain.JobClosed, job.Status)
		assert.NotNil(t, job.ClosedAt)
		assert.False(t, job.AcceptsApplications())

		assert.False(t, job.Close())
	})

	t.Run("Should reopen a closed posting and clear the stamp", func(t *testing.T) {
		job := &domain.Job{Status: domain.JobOpen}
		job.Close()

		assert.True(t, job.Reopen())
		assert.Equal(t, domain.JobOpen, job.Status)
		assert.Nil(t, job.ClosedAt)
		assert.True(t, job.AcceptsApplications())

		assert.False(t, job.Reopen())
	})
}

func TestValidContractType(t *testing.T) {
	t.Run("Should know the five contract types", func(t *testing.T) {
		for _, ct := range []domain.ContractType{
			domain.ContractFullTime,
			domain.ContractPartTime,
			domain.ContractTemporary,
			domain.ContractFreelance,
			domain.ContractInternship,
		} {
			assert.True(t, domain.ValidContractType(ct), "type %s", ct)
		}
		assert.False(t, domain.ValidContractType("gig"))
	})
}
