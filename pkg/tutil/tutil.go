package tutil

import (
	"os"
	"strings"
)

func IsIntegrationTest() bool {
	testType := os.Getenv("HACKD_TEST")
	return strings.ToLower(testType) == "integration"
}
