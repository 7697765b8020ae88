package companies

import (
	"errors"
	"math/rand"
	"strings"
)

const (
	slugSuffixChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugSuffixLength = 4
)

type SlugAvailabilityChecker interface {
	ExistsBySlug(slug string) (bool, error)
}

// Slugify lowercases a company name and replaces whitespace runs with
// hyphens, stripping anything that is not URL-safe.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, c := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// GenerateSlug derives the public portal slug for an approved company:
// slugified name plus a random 4-character suffix. The suffix is re-rolled
// on collision; if collisions persist the suffix grows by one character.
func GenerateSlug(name string, checker SlugAvailabilityChecker) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "company"
	}

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		slug := base + "-" + randomSuffix(slugSuffixLength)

		exists, err := checker.ExistsBySlug(slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
	}

	slug := base + "-" + randomSuffix(slugSuffixLength+1)
	exists, err := checker.ExistsBySlug(slug)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errors.New("failed to generate unique slug")
	}

	return slug, nil
}

func randomSuffix(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = slugSuffixChars[rand.Intn(len(slugSuffixChars))]
	}
	return string(b)
}
