package render_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vsla/internal/http/render"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *time.Time
		wantErr error
	}{
		{
			name:  "Calendar day",
			input: `{"date":"2024-03-01"}`,
			want:  new(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:  "Timestamp with offset",
			input: `{"date":"2024-03-01T10:30:00+02:00"}`,
			want:  new(time.Date(2024, time.March, 1, 8, 30, 0, 0, time.UTC)),
		},
		{
			name:  "Null",
			input: `{"date":null}`,
		},
		{
			name:  "Empty string",
			input: `{"date":""}`,
		},
		{
			name:    "Day first",
			input:   `{"date":"01/03/2024"}`,
			wantErr: render.ErrInvalidDate,
		},
		{
			name:    "Number",
			input:   `{"date":20240301}`,
			wantErr: render.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Date *render.Date `json:"date"`
			}

			err := json.Unmarshal([]byte(tt.input), &body)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)

			got := body.Date.Ptr()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func TestBodyID(t *testing.T) {
	id := uuid.New()

	got, err := render.BodyID(id.String(), "member")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = render.BodyID("", "member")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got)

	_, err = render.BodyID("member-7", "member")
	assert.ErrorIs(t, err, render.ErrInvalidID)

	opt, err := render.OptionalBodyID("", "loan")
	require.NoError(t, err)
	assert.Nil(t, opt)

	opt, err = render.OptionalBodyID(id.String(), "loan")
	require.NoError(t, err)
	require.NotNil(t, opt)
	assert.Equal(t, id, *opt)
}
