package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_RejectsEmptyDSN(t *testing.T) {
	db, err := Connect(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyDSN)
	assert.Nil(t, db)
}

func TestConnectOrFallback_EmptyDSNReturnsNil(t *testing.T) {
	db, cleanup := ConnectOrFallback(context.Background(), "", nil)
	assert.Nil(t, db)
	require.NotNil(t, cleanup)
	cleanup()
}
