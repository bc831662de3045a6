package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smuggr/timetable-solver/internal/domain"
	"github.com/smuggr/timetable-solver/internal/engine"
)

func trivialRequest() engine.Request {
	return engine.Request{
		Lessons: nil,
		Classes: nil,
		Config: domain.SchoolConfig{
			NumberOfPeriods: 2,
			DaysOfWeek:      []domain.DayOfWeek{{Name: "Mon"}},
		},
		MaxTimeLimit: 5 * time.Second,
	}
}

func TestRegistryStartAndPoll(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	driver := engine.NewDriver(2)

	id := reg.Start(trivialRequest(), driver)
	require.NotEmpty(t, id)

	deadline := time.Now().Add(10 * time.Second)
	var job *Job
	for time.Now().Before(deadline) {
		j, ok := reg.Get(id)
		require.True(t, ok)
		job = j
		if job.Status == StatusCompleted || job.Status == StatusFailed {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	require.NotNil(t, job)
	require.Equal(t, StatusCompleted, job.Status)
	require.NotNil(t, job.Result)
	require.Equal(t, "success", job.Result.Status)
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	_, ok := reg.Get("does-not-exist")
	require.False(t, ok)
}
