package progrock_test

import (
	"bytes"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/adapters/progrock"
	"go.trai.ch/puppet/internal/core/domain"
)

func TestRenderer_Journal(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var buf bytes.Buffer
		r := progrock.NewRenderer(progrock.NewJournal(&buf))
		require.NoError(t, r.Start(t.Context()))

		r.OnPlanEmit([]string{"a", "b", "c", "d"})
		r.OnTaskStart("s1", "", "get-portfolio-id 111111111111:eu-west-1:widgets", time.Now())
		r.OnTaskStart("s2", "", "create-spoke-local-portfolio 222222222222:eu-west-1:widgets", time.Now())
		r.OnTaskComplete("s1", time.Now(), string(domain.StatusCached), nil)

		time.Sleep(1500 * time.Millisecond)
		r.OnTaskComplete("s2", time.Now(), string(domain.StatusDone), nil)

		r.OnTaskStart("s3", "", "provision-action 222222222222:eu-west-1", time.Now())
		r.OnTaskComplete("s3", time.Now(), string(domain.StatusFailed), errors.New("build did not succeed"))

		r.OnTaskStart("s4", "", "import-into-spoke-local-portfolio 222222222222:eu-west-1:widgets", time.Now())
		r.OnTaskComplete("s4", time.Now(), string(domain.StatusCancelled), nil)

		require.NoError(t, r.Stop())
		require.NoError(t, r.Wait())

		assert.Equal(t, ""+
			"#1 get-portfolio-id 111111111111:eu-west-1:widgets CACHED\n"+
			"#2 create-spoke-local-portfolio 222222222222:eu-west-1:widgets DONE 1.5s\n"+
			"#3 provision-action 222222222222:eu-west-1 ERROR build did not succeed\n"+
			"#4 import-into-spoke-local-portfolio 222222222222:eu-west-1:widgets ERROR cancelled\n",
			buf.String())
	})
}

func TestRenderer_FailedWithoutError(t *testing.T) {
	var buf bytes.Buffer
	r := progrock.NewRenderer(progrock.NewJournal(&buf))

	r.OnTaskStart("s1", "", "task", time.Now())
	r.OnTaskComplete("s1", time.Now(), string(domain.StatusFailed), nil)

	assert.Equal(t, "#1 task ERROR task failed\n", buf.String())
}

func TestRenderer_UnknownSpanIgnored(t *testing.T) {
	var buf bytes.Buffer
	r := progrock.NewRenderer(progrock.NewJournal(&buf))

	r.OnTaskComplete("missing", time.Now(), string(domain.StatusDone), nil)

	assert.Empty(t, buf.String())
}

func TestRenderer_StopCancelsOpenVertices(t *testing.T) {
	var buf bytes.Buffer
	r := progrock.NewRenderer(progrock.NewJournal(&buf))

	r.OnTaskStart("s1", "", "task", time.Now())
	require.NoError(t, r.Stop())

	assert.Equal(t, "#1 task ERROR cancelled\n", buf.String())
}
