package result

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"hogwarts-artifacts/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// plural fields read better as "are required".
var plural = map[string]bool{"roles": true}

// UseJSONFieldNames makes validation errors report json names instead of Go
// field names.
func UseJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

// BindJSON decodes the body into obj and turns binding failures into a
// validation error keyed by json field.
func BindJSON(c *gin.Context, obj any) error {
	UseJSONFieldNames()
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return apperr.Validation(fields)
	}
	return apperr.InvalidArgument(apperr.MsgInvalidArguments, err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if plural[fe.Field()] {
			return fmt.Sprintf("%s are required.", fe.Field())
		}
		return fmt.Sprintf("%s is required.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
