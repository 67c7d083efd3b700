package service

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseInitials(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two words", "Intro CS", "IC"},
		{"lower case", "linear algebra", "LA"},
		{"capped at four", "one two three four five", "OTTF"},
		{"extra whitespace", "  data \t structures  ", "DS"},
		{"numeric word skipped", "101 Intro Course", "IC"},
		{"only symbols", "123 !!", "CRS"},
		{"empty", "", "CRS"},
		{"unicode letter", "éducation", "É"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CourseInitials(tt.in))
		})
	}
}

func TestCodesDeterministic(t *testing.T) {
	c := NewCodesWith(func(n int) int { return 0 }, func() string { return "fixed-id" })
	assert.Equal(t, "1000", c.PIN())
	assert.Equal(t, "IC-100", c.CourseCode("Intro CS"))
	assert.Equal(t, "fixed-id", c.ID())

	c = NewCodesWith(func(n int) int { return n - 1 }, nil)
	assert.Equal(t, "9999", c.PIN())
	assert.Equal(t, "CRS-999", c.CourseCode(""))
}

func TestCodesRandomRanges(t *testing.T) {
	c := NewCodes()
	code := regexp.MustCompile(`^[A-Z]{1,4}-[0-9]{3}$`)

	for i := 0; i < 500; i++ {
		pin, err := strconv.Atoi(c.PIN())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pin, 1000)
		assert.LessOrEqual(t, pin, 9999)

		assert.Regexp(t, code, c.CourseCode("Software Engineering"))
	}

	assert.NotEqual(t, c.ID(), c.ID())
}
