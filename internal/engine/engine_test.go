package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apportable/openal-soft/internal/platform"
)

func Test_EnsureCreated_createsEngineOnceAndRefcounts(t *testing.T) {
	factory := &platform.MockFactory{}
	e := New(factory)

	_, _, err := e.EnsureCreated()
	require.NoError(t, err)
	_, _, err = e.EnsureCreated()
	require.NoError(t, err)

	assert.Equal(t, 1, factory.CreatedEngines)
	assert.Equal(t, 2, e.Refcount())
}

func Test_Release_destroysOnlyWhenRefcountReachesZero(t *testing.T) {
	factory := &platform.MockFactory{}
	e := New(factory)

	_, _, err := e.EnsureCreated()
	require.NoError(t, err)
	_, _, err = e.EnsureCreated()
	require.NoError(t, err)

	e.Release()
	assert.Equal(t, 1, e.Refcount())

	e.Release()
	assert.Equal(t, 0, e.Refcount())
}

func Test_Release_withoutMatchingEnsureCreatedIsNoOp(t *testing.T) {
	e := New(&platform.MockFactory{})
	e.Release()
	assert.Equal(t, 0, e.Refcount())
}

func Test_EnsureCreated_failsCleanlyWhenOutputMixRealizeFails(t *testing.T) {
	factory := &platform.MockFactory{FailOutputMix: true}
	e := New(factory)

	_, _, err := e.EnsureCreated()
	require.Error(t, err)
	assert.Equal(t, 0, e.Refcount())
}

func Test_EnsureCreated_afterFullReleaseCreatesANewEngineInstance(t *testing.T) {
	factory := &platform.MockFactory{}
	e := New(factory)

	_, _, err := e.EnsureCreated()
	require.NoError(t, err)
	e.Release()

	_, _, err = e.EnsureCreated()
	require.NoError(t, err)

	assert.Equal(t, 2, factory.CreatedEngines)
}
