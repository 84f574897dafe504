package codec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

func TestEncodeNilIsEmptyArray(t *testing.T) {
	s, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)
}

func TestEncodeShape(t *testing.T) {
	s, err := Encode([]model.Todo{{ID: "a", Text: "Buy milk"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a","text":"Buy milk","completed":false}]`, s)
}

func TestRoundTrip(t *testing.T) {
	in := []model.Todo{
		{ID: "1", Text: "A", Completed: true},
		{ID: "2", Text: "B"},
		{ID: "3", Text: "C d e"},
	}
	s, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(s)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"not json", "{oops"},
		{"object not array", `{"id":"1"}`},
		{"missing completed", `[{"id":"1","text":"x"}]`},
		{"completed not bool", `[{"id":"1","text":"x","completed":"yes"}]`},
		{"numeric id", `[{"id":1,"text":"x","completed":false}]`},
		{"empty id", `[{"id":"","text":"x","completed":false}]`},
		{"null element", `[null]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.value)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestDecodeRestoresInvariants(t *testing.T) {
	value := `[
		{"id":"1","text":"  keep  ","completed":false},
		{"id":"2","text":"   ","completed":true},
		{"id":"1","text":"dup","completed":true},
		{"id":"3","text":"last","completed":true}
	]`
	got, err := Decode(value)
	require.NoError(t, err)

	want := []model.Todo{
		{ID: "1", Text: "keep"},
		{ID: "3", Text: "last", Completed: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEmptyArray(t *testing.T) {
	got, err := Decode("[]")
	require.NoError(t, err)
	assert.Empty(t, got)
}
