package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn, err := BuildDSN("px", "secret", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "px:secret@tcp(127.0.0.1:3306)/pxtogether?charset=utf8mb4&parseTime=True&loc=Local", dsn)

	dsn, err = BuildDSN("u", "p", "db.local", "3307", "grids")
	require.NoError(t, err)
	assert.Contains(t, dsn, "@tcp(db.local:3307)/grids?")

	_, err = BuildDSN("", "p", "", "", "")
	assert.Error(t, err)
}
