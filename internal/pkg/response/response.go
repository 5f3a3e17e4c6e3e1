package response

import "github.com/gofiber/fiber/v3"

// Error kind names used in the error envelope, per the matching API
// contract.
const (
	KindInvalidInput      = "InvalidInput"
	KindNotFound          = "NotFound"
	KindDimensionMismatch = "DimensionMismatch"
	KindStoreError        = "StoreError"

	MessageInternalServerError = "internal server error"
)

// ErrorBody is the failure envelope: {"success":false,"error":"Kind: detail"}.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// OK writes a success payload. Payloads carry their own success flag
// so the wire shape stays flat.
func OK(c fiber.Ctx, status int, payload any) error {
	return c.Status(normalizeStatus(status)).JSON(payload)
}

// Fail writes the failure envelope.
func Fail(c fiber.Ctx, status int, message string) error {
	if message == "" {
		message = MessageInternalServerError
	}
	return c.Status(normalizeStatus(status)).JSON(ErrorBody{Success: false, Error: message})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}
