package middleware

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateRequestID generates a unique request ID.
func GenerateRequestID() string {
	return fmt.Sprintf("%s-%d", uuid.New().String(), time.Now().UnixNano())
}
