package row

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	r := Row{ID: 7, Name: "wass", Email: "wass@example.com"}
	buf := make([]byte, Size)

	require.NoError(t, Serialize(r, buf))

	got, err := Deserialize(buf)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestSerializeRejectsOversizedFields(t *testing.T) {
	buf := make([]byte, Size)

	long := make([]byte, nameSize+1)
	for i := range long {
		long[i] = 'a'
	}

	err := Serialize(Row{ID: 1, Name: string(long)}, buf)
	require.Error(t, err)
}

func TestSerializeRejectsWrongDstLength(t *testing.T) {
	err := Serialize(Row{ID: 1}, make([]byte, Size-1))
	require.Error(t, err)
}

func TestDeserializeTrimsTrailingNulls(t *testing.T) {
	buf := make([]byte, Size)
	require.NoError(t, Serialize(Row{ID: 1, Name: "a", Email: "b"}, buf))

	got, err := Deserialize(buf)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, "b", got.Email)
}
