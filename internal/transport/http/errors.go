package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

var validate = newValidator()

// newValidator добавляет к стандартным правилам order_state, чтобы набор
// допустимых стадий задавался только в domain.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("order_state", func(fl validator.FieldLevel) bool {
		return domain.OrderState(fl.Field().Int()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// ErrorResponse — тело ответа с ошибкой.
type ErrorResponse struct {
	Message   string            `json:"message"`
	Details   []ValidationError `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ValidationError описывает одно нарушенное правило валидации.
type ValidationError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func validateRequest(obj any) []ValidationError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "", Rule: err.Error()}}
	}
	details := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details = append(details, ValidationError{Field: fe.Field(), Rule: rule})
	}
	return details
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Message: message, RequestID: c.GetString(requestIDKey)})
}

func respondValidation(c *gin.Context, details []ValidationError) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Message:   "invalid request data",
		Details:   details,
		RequestID: c.GetString(requestIDKey),
	})
}

// respondError переводит ошибку сервиса в HTTP-статус.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		message := "order not found"
		if errors.Is(err, domain.ErrUserNotFound) {
			message = "user not found"
		}
		respondMessage(c, http.StatusNotFound, message)
	case errors.Is(err, domain.ErrUsernameTaken):
		respondMessage(c, http.StatusConflict, "username already taken")
	case errors.Is(err, domain.ErrOrderRequired):
		respondMessage(c, http.StatusBadRequest, "order is required")
	default:
		_ = c.Error(err)
		respondMessage(c, http.StatusInternalServerError, "internal error")
	}
}
