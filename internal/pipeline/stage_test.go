package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signalnine/algolens/internal/pipeline"
)

func TestStageNames(t *testing.T) {
	assert.Equal(t, "IDLE", pipeline.Idle.String())
	assert.Equal(t, "STATIC_ANALYSIS", pipeline.StaticAnalysis.String())
	assert.Equal(t, "ERROR", pipeline.Error.String())

	var s pipeline.Stage
	assert.NoError(t, s.UnmarshalText([]byte("BENCHMARKING")))
	assert.Equal(t, pipeline.Benchmarking, s)
	assert.Error(t, s.UnmarshalText([]byte("LUNCH")))
}

func TestCanSelect(t *testing.T) {
	tests := []struct {
		node    string
		current pipeline.Stage
		want    bool
	}{
		{"parse", pipeline.Idle, false},
		{"parse", pipeline.Parsing, true},
		{"static", pipeline.Parsing, false},
		{"parse", pipeline.Benchmarking, true},
		{"runtime", pipeline.Benchmarking, true},
		{"judge", pipeline.Benchmarking, false},
		{"suggest", pipeline.Suggestion, true},
		{"suggest", pipeline.Complete, true},
		{"parse", pipeline.Error, false},
		{"missing", pipeline.Complete, false},
	}
	for _, tt := range tests {
		t.Run(tt.node+"@"+tt.current.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, pipeline.CanSelect(tt.node, tt.current))
		})
	}
}

func TestNodesOrder(t *testing.T) {
	var ids []string
	for _, n := range pipeline.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"parse", "static", "runtime", "judge", "explain", "suggest"}, ids)

	n, ok := pipeline.NodeForStage(pipeline.Judgment)
	assert.True(t, ok)
	assert.Equal(t, "judge", n.ID)

	_, ok = pipeline.NodeForStage(pipeline.Complete)
	assert.False(t, ok)
}
