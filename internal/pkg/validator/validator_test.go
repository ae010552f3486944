package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/place-microservice/internal/pkg/errors"
)

type reviewInput struct {
	Rating float64 `validate:"required,gte=0.5,lte=5"`
	Text   string  `validate:"required,notblank,max=5000"`
}

func TestValidate(t *testing.T) {
	for _, rating := range []float64{0.5, 0.7, 3.25, 4.3, 4.5, 5} {
		assert.NoError(t, Validate(reviewInput{Rating: rating, Text: "좋아요"}), "rating %v", rating)
	}

	err := Validate(reviewInput{Rating: 5.5, Text: "ok"})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "rating")
}

func TestValidate_BlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		err := Validate(reviewInput{Rating: 4, Text: text})
		require.Error(t, err, "text %q", text)

		var appErr *errors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Details, "text")
	}
}

func TestValidate_TextTooLong(t *testing.T) {
	err := Validate(reviewInput{Rating: 5, Text: strings.Repeat("a", 5001)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}
