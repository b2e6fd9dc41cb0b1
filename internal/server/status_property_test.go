package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/user/vidhost-go/internal/model"
)

// For any amount of wrapping and any message text, an error keeps its
// taxonomy's status code, and every error maps to a failure status.
func TestProperty_StatusForError(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	sentinels := []struct {
		err    error
		status int
	}{
		{model.ErrValidation, http.StatusBadRequest},
		{model.ErrUnauthorized, http.StatusUnauthorized},
		{model.ErrForbidden, http.StatusForbidden},
		{model.ErrNotFound, http.StatusNotFound},
		{model.ErrExtraction, http.StatusInternalServerError},
		{model.ErrPersistence, http.StatusInternalServerError},
	}

	properties.Property("wrapping preserves the mapped status", prop.ForAll(
		func(idx int, msg string, depth int) bool {
			s := sentinels[idx%len(sentinels)]
			err := s.err
			for i := 0; i < depth%4; i++ {
				err = fmt.Errorf("%w: %s", err, msg)
			}
			return StatusForError(err) == s.status
		},
		gen.IntRange(0, 5),
		gen.AlphaString(),
		gen.IntRange(0, 3),
	))

	properties.Property("unknown errors map to 500", prop.ForAll(
		func(msg string) bool {
			return StatusForError(errors.New(msg)) == http.StatusInternalServerError
		},
		gen.AlphaString(),
	))

	properties.Property("every status is a failure status", prop.ForAll(
		func(idx int) bool {
			status := StatusForError(sentinels[idx%len(sentinels)].err)
			return status >= 400 && status < 600
		},
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}
