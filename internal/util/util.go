package util

import (
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// GenUUID generates a full UUID, used for request and event identifiers.
func GenUUID() string {
	return uuid.New().String()
}

// GenShortUID generates a short unique identifier for resource names.
func GenShortUID() string {
	return shortuuid.New()
}
