package server

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxTitleLength    = 200
	maxCategoryLength = 64
	maxContentLength  = 20000
)

func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", errors.New("title is required")
	}
	if len(trimmed) > maxTitleLength {
		return "", fmt.Errorf("title must be %d characters or fewer", maxTitleLength)
	}
	return trimmed, nil
}

// validateContent requires non-blank text but returns it verbatim: prompt
// bodies keep their whitespace and formatting.
func validateContent(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", errors.New("content is required")
	}
	if len(content) > maxContentLength {
		return "", fmt.Errorf("content must be %d characters or fewer", maxContentLength)
	}
	return content, nil
}

func validateCategory(category string) (string, error) {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return "", errors.New("category is required")
	}
	if len(trimmed) > maxCategoryLength {
		return "", fmt.Errorf("category must be %d characters or fewer", maxCategoryLength)
	}
	return trimmed, nil
}
