package cli

import (
	"bytes"
	"testing"

	"job-tracker-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRenderApplicationsShowsCountOfFullSet(t *testing.T) {
	url := "https://acme.example/jobs/1"
	apps := []domain.JobApplication{
		{ID: "0b7e4c9a-2f55-4d2e-9d0c-6f1e8b3a1c11", Company: "Acme", Title: "Engineer", URL: &url, Status: domain.StatusApplied},
	}

	var out bytes.Buffer
	renderApplications(&out, apps, 3)

	assert.Contains(t, out.String(), "Showing 1 of 3 applications")
	assert.Contains(t, out.String(), "0b7e4c9a")
	assert.Contains(t, out.String(), "Applied")
	assert.Contains(t, out.String(), url)

	out.Reset()
	renderApplications(&out, nil, 2)
	assert.Equal(t, "No applications.\nShowing 0 of 2 applications\n", out.String())

	out.Reset()
	renderApplications(&out, nil, 0)
	assert.Equal(t, "No applications.\n", out.String())
}

func TestRenderStats(t *testing.T) {
	var out bytes.Buffer
	renderStats(&out, domain.ApplicationStats{
		Total:    3,
		ByStatus: map[domain.Status]int{domain.StatusApplied: 2, domain.StatusOffer: 1},
	})
	assert.Equal(t, "Total 3 | Saved 0 | Applied 2 | Interviewing 0 | Rejected 0 | Offer 1\n", out.String())
}
