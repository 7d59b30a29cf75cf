package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/campsite-booking-backend/internal/calendar"
)

func TestOptionalDate(t *testing.T) {
	got, err := OptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = OptionalDate("  2026-11-02 ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, calendar.Date(2026, 11, 2), *got)

	_, err = OptionalDate("02/11/2026")
	assert.Error(t, err)
}

func TestListParams(t *testing.T) {
	p := ListParams{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = ListParams{Page: 3, PageSize: 10}
	p.Normalize()
	assert.Equal(t, 20, p.Offset())
}
