package service

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	pinMin        = 1000
	pinMax        = 9999
	codeSuffixMin = 100
	codeSuffixMax = 999
	maxInitials   = 4
	defaultPrefix = "CRS"
)

// Codes generates IDs, session PINs and course codes. Randomness is
// injectable so tests can pin the output.
type Codes struct {
	intN  func(n int) int
	newID func() string
}

// NewCodes creates a Codes backed by math/rand and UUIDv4
func NewCodes() *Codes {
	return &Codes{intN: rand.IntN, newID: uuid.NewString}
}

// NewCodesWith creates a Codes with fixed sources
func NewCodesWith(intN func(n int) int, newID func() string) *Codes {
	c := NewCodes()
	if intN != nil {
		c.intN = intN
	}
	if newID != nil {
		c.newID = newID
	}
	return c
}

// ID returns a fresh object ID
func (c *Codes) ID() string {
	return c.newID()
}

// PIN returns a 4-digit session PIN. PINs are not checked for uniqueness.
func (c *Codes) PIN() string {
	return strconv.Itoa(c.between(pinMin, pinMax))
}

// CourseCode builds a code like "ICS-482" from a course name
func (c *Codes) CourseCode(name string) string {
	return CourseInitials(name) + "-" + strconv.Itoa(c.between(codeSuffixMin, codeSuffixMax))
}

func (c *Codes) between(lo, hi int) int {
	return lo + c.intN(hi-lo+1)
}

// CourseInitials returns up to four upper-cased word initials of name.
// Words starting with a non-letter are skipped. Falls back to "CRS".
func CourseInitials(name string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(name) {
		first := []rune(word)[0]
		if !unicode.IsLetter(first) {
			continue
		}
		b.WriteRune(unicode.ToUpper(first))
		if n++; n == maxInitials {
			break
		}
	}
	if b.Len() == 0 {
		return defaultPrefix
	}
	return b.String()
}
