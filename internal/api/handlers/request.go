package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError ошибка валидации одного поля
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

// Validate проверяет структуру по тегам validate.
// Возвращает nil, если ошибок нет.
func Validate(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Message: err.Error()}}
	}

	result := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		result = append(result, ValidationError{
			Field:   fieldName(fe),
			Tag:     fe.Tag(),
			Message: validationMessage(fe),
		})
	}
	return result
}

// fieldName путь к полю без имени корневой структуры: slots[0].start
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return lowerFirst(ns)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный email"
	case "min":
		return fmt.Sprintf("минимум %s", fe.Param())
	case "max":
		return fmt.Sprintf("максимум %s", fe.Param())
	case "uuid":
		return "некорректный UUID"
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", fe.Param())
	case "gte":
		return fmt.Sprintf("должно быть не меньше %s", fe.Param())
	case "lte":
		return fmt.Sprintf("должно быть не больше %s", fe.Param())
	default:
		return fmt.Sprintf("не прошло проверку %s", fe.Tag())
	}
}
