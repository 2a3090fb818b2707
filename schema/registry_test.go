package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryClaim(t *testing.T) {
	r := NewRegistry(0, nil)
	require.NoError(t, r.Claim("Weight"))
	assert.True(t, r.Claimed("Weight"))
	assert.ErrorIs(t, r.Claim("Weight"), ErrDuplicateName)
	assert.ErrorIs(t, r.Claim(""), ErrEmptyName)
}

func TestRegistryIDs(t *testing.T) {
	r := NewRegistry(100, nil)
	assert.Equal(t, 100, r.NextID())
	assert.Equal(t, 101, r.NextID())
	assert.Equal(t, 102, r.LastID())

	assert.Equal(t, 1, NewRegistry(-5, nil).NextID())
}

func TestRegistrySuperProperties(t *testing.T) {
	r := NewRegistry(1, nil)
	created, err := r.AddSuperProperty("Measure")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = r.AddSuperProperty("Measure")
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, r.Claim("Height"))
	_, err = r.AddSuperProperty("Height")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestRegistryVariables(t *testing.T) {
	r := NewRegistry(1, nil)
	require.NoError(t, r.DefineVariable("bmi"))
	assert.True(t, r.HasVariable("bmi"))
	assert.ErrorIs(t, r.DefineVariable("bmi"), ErrDuplicateName)
}

func TestRegistryGroups(t *testing.T) {
	r := NewRegistry(1, nil)
	steps := []struct {
		group  string
		first  bool
		reused bool
	}{
		{"A", true, false},
		{"A", false, false},
		{"B", true, false},
		{"A", false, true},
		{"A", false, false},
	}
	for _, s := range steps {
		first, reused := r.SeeGroup(s.group)
		assert.Equal(t, s.first, first, s.group)
		assert.Equal(t, s.reused, reused, s.group)
	}
}

func TestRegistryProperties(t *testing.T) {
	r := NewRegistry(1, nil)
	r.AddProperty("Weight")
	r.AddProperty("Age")
	assert.True(t, r.HasProperty("Age"))
	assert.Equal(t, []string{"Age", "Weight"}, r.Properties())
}
