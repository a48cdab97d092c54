package menus

import (
	"errors"

	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

// ErrorMessage turns a service error into something a user can act on.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotFood):
		return "🤔 That doesn't look like food. Describe what you ate, e.g. \"ribeye with butter\"."
	case errors.Is(err, apperrors.ErrRateLimitExceeded):
		return "⏳ Too many requests. Please wait a minute and try again."
	case errors.Is(err, apperrors.ErrNoActiveFast):
		return NoActiveFast
	case errors.Is(err, apperrors.ErrFastAlreadyActive):
		return "⏱️ A fast is already running. Use /faststatus to see it."
	case errors.Is(err, apperrors.ErrTimeout):
		return "⌛ The analysis took too long. Please try again."
	case errors.Is(err, apperrors.ErrExternalAPI):
		return "🤖 The analysis service is unavailable right now. Please try again in a few minutes."
	case errors.Is(err, apperrors.ErrDatabaseError):
		return "💾 I couldn't reach your log right now. Please try again shortly."
	}

	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidWeight:
		return "⚠️ Please enter a weight between 30 and 300 kg, e.g. `85.5`."
	case apperrors.CodeInvalidSeverity:
		return "⚠️ Severity must be a number from 1 to 5."
	case apperrors.CodeInvalidSchema:
		return "😕 I couldn't read the analysis. Please try again or describe the meal in more detail."
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
		return "⚠️ " + EscapeMarkdown(appErr.Message)
	}
	return "❌ Something went wrong. Please try again."
}
