package validate

import (
	"testing"

	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string   `validate:"notblank"`
	Email    string   `validate:"required,emailshape"`
	Keywords []string `label:"keywords" validate:"notblank"`
}

func TestStruct_OK(t *testing.T) {
	require.NoError(t, Struct(signup{Name: "Jane", Email: "jane@gov.ca", Keywords: []string{"sap"}}))
}

func TestStruct_Messages(t *testing.T) {
	err := Struct(signup{Name: "   ", Email: "jane@localhost", Keywords: nil})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "email is not a valid email address")
	assert.Contains(t, err.Error(), "keywords is required")
}

func TestEmailShape(t *testing.T) {
	for _, ok := range []string{"a@b.co", "first.last@sub.domain.org", "x_y@z.io"} {
		assert.True(t, EmailShape(ok), ok)
	}
	for _, bad := range []string{"", "plain", "a@b", "a b@c.d", "a@@b.c", "@b.c"} {
		assert.False(t, EmailShape(bad), bad)
	}
}
