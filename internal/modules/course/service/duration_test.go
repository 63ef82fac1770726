package service

import (
	"testing"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeconds(t *testing.T) {
	assert.Equal(t, 90, ParseSeconds("90"))
	assert.Equal(t, 12, ParseSeconds(" 12.7 "))
	assert.Equal(t, 0, ParseSeconds(""))
	assert.Equal(t, 0, ParseSeconds("abc"))
	assert.Equal(t, 0, ParseSeconds("-5"))
	assert.Equal(t, 0, ParseSeconds("NaN"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h 5m", FormatDuration(3900))
	assert.Equal(t, "1h 0m", FormatDuration(3600))
	assert.Equal(t, "5m 3s", FormatDuration(303))
	assert.Equal(t, "42s", FormatDuration(42))
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "0s", FormatDuration(-3))
}

func TestTotalDurationSeconds(t *testing.T) {
	course := &entity.Course{Sections: []entity.Section{
		{SubSections: []entity.SubSection{{TimeDuration: "60"}, {TimeDuration: "bogus"}}},
		{SubSections: []entity.SubSection{{TimeDuration: "3540"}}},
	}}
	assert.Equal(t, 3600, TotalDurationSeconds(course))
	assert.Equal(t, "1h 0m", FormatDuration(TotalDurationSeconds(course)))
}

func TestResolveDuration(t *testing.T) {
	got, err := resolveDuration(125, "10")
	require.NoError(t, err)
	assert.Equal(t, "125", got)

	got, err = resolveDuration(0, " 10 ")
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	got, err = resolveDuration(0, "")
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	_, err = resolveDuration(0, "1m")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = resolveDuration(0, "-1")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
