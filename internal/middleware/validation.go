package middleware

import (
	"errors"
	"sync"

	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom rules on gin's validator engine.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected gin validator engine")
			return
		}
		err = validation.Register(v)
	})
	return err
}

// BindJSON binds the request body into obj. On failure it writes a 400
// listing every violated field and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, bindError(err))
		return false
	}
	return true
}

func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := apperrors.NewValidationError("Validation failed!")
		for _, fe := range verrs {
			out.Add(fe.Field(), validation.FieldMessage(fe))
		}
		return out
	}
	return apperrors.NewValidationError("Invalid request body!").Add("body", err.Error())
}
