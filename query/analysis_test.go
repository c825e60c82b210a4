package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skmbw/stark/exec"
	"github.com/skmbw/stark/model"
)

func TestAnalysisOperationsSignalNotImplemented(t *testing.T) {
	c := exec.Parallelize([]model.Record[int]{pointRec(1, 1, 0)}, 1)

	_, err := Cluster(context.Background(), c)
	assert.ErrorIs(t, err, ErrNotImplemented)

	_, err = Skyline(context.Background(), c)
	assert.ErrorIs(t, err, ErrNotImplemented)
}
