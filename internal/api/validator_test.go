package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleInput struct {
	Title string `validate:"required,notblank"`
}

func TestNewValidator(t *testing.T) {
	var cv *CustomValidator
	require.NotPanics(t, func() { cv = NewValidator() })

	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"通常の文字列", "Go勉強会", false},
		{"空白のみは拒否", "   ", true},
		{"空文字は拒否", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Validate(&titleInput{Title: tt.title})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var he *echo.HTTPError
			require.True(t, errors.As(err, &he))
			assert.Equal(t, http.StatusBadRequest, he.Code)
		})
	}
}
