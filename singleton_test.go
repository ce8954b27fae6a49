package connpool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-db/connpool/poolerrors"
)

func TestInitialize_NullSettingsFails(t *testing.T) {
	defer resetForTest()
	err := Initialize(context.Background(), nil, NewRawCredentials("u", "p", "url"), newFakeFactory())
	assert.True(t, poolerrors.IsNullArgument(err))
}

func TestInitialize_NullCredentialsFails(t *testing.T) {
	defer resetForTest()
	err := Initialize(context.Background(), newTestSettings(), nil, newFakeFactory())
	assert.True(t, poolerrors.IsNullArgument(err))
}

func TestInitialize_NullFactoryFails(t *testing.T) {
	defer resetForTest()
	err := Initialize(context.Background(), newTestSettings(), NewRawCredentials("u", "p", "url"), nil)
	assert.True(t, poolerrors.IsNullArgument(err))
}

func TestInstance_BeforeInitializeFails(t *testing.T) {
	defer resetForTest()
	_, err := Instance()
	assert.True(t, poolerrors.IsNotInitialized(err))
}

func TestInitialize_ThenInstanceSucceeds(t *testing.T) {
	defer resetForTest()
	err := Initialize(context.Background(), newTestSettings(), NewRawCredentials("u", "p", "url"), newFakeFactory())
	require.NoError(t, err)

	p, err := Instance()
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestInitialize_IsIdempotentAfterFirstSuccess(t *testing.T) {
	defer resetForTest()
	require.NoError(t, Initialize(context.Background(), newTestSettings(), NewRawCredentials("u", "p", "url"), newFakeFactory()))
	first, err := Instance()
	require.NoError(t, err)

	// A second call with different arguments must not replace the
	// existing instance.
	err = Initialize(context.Background(), newTestSettings(), NewRawCredentials("other", "other", "other"), newFakeFactory())
	require.NoError(t, err)

	second, err := Instance()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
