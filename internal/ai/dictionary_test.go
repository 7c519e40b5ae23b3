package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionary_Extract(t *testing.T) {
	tests := []struct {
		name  string
		known []string
		text  string
		want  []string
	}{
		{
			name: "capitalized phrases",
			text: "lunch with Alice Cooper and Bob. The weather was nice.",
			want: []string{"Alice Cooper", "Bob"},
		},
		{
			name:  "known names ignore case",
			known: []string{"Dana"},
			text:  "met dana at the gym, then Eve joined",
			want:  []string{"Dana", "Eve"},
		},
		{
			name: "sentence starters dropped",
			text: "Today I went running. Yesterday was Monday.",
			want: []string{},
		},
		{
			name:  "known name wins over capitalized overlap",
			known: []string{"Carol"},
			text:  "Carol called.",
			want:  []string{"Carol"},
		},
		{
			name:  "offsets survive letters that change width when lowered",
			known: []string{"Frank"},
			text:  "trip to İstanbul, İzmir and İznik with frank, Zoe",
			want:  []string{"İstanbul", "İzmir", "İznik", "Frank", "Zoe"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := NewDictionary(tt.known).Extract(context.TODO(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestDictionary_Reload(t *testing.T) {
	d := NewDictionary(nil)

	names, err := d.Extract(context.TODO(), "coffee with frank")
	require.NoError(t, err)
	assert.Empty(t, names)

	d.Reload([]string{" Frank ", "frank"})
	names, err = d.Extract(context.TODO(), "coffee with frank")
	require.NoError(t, err)
	assert.Equal(t, []string{"Frank"}, names)
}
