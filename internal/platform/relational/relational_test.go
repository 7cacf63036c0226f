package relational

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	dsn, err := normalizeMySQLDSN("shop:secret@tcp(127.0.0.1:3306)/storefront")

	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
}

func TestConnect_RejectsEmptyDSNAndUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), DriverPostgres, " ")
	assert.Error(t, err)

	_, err = Connect(context.Background(), Driver("oracle"), "dsn")
	assert.ErrorContains(t, err, "unsupported")
}
