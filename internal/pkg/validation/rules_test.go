package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDriveLink(t *testing.T) {
	valid := []string{
		"https://drive.google.com/file/d/1AbC_dEf-123/view?usp=sharing",
		"https://docs.google.com/document/d/1xYz/edit",
		"https://drive.google.com/drive/folders/1abc",
	}
	for _, url := range valid {
		assert.True(t, IsValidDriveLink(url), "expected valid: %s", url)
	}

	invalid := []string{
		"",
		"http://drive.google.com/file/d/1abc/view",       // not https
		"https://drive.google.com",                        // no path
		"https://drive.google.com/",                       // bare slash
		"https://dropbox.com/s/abc/report.pdf",            // wrong host
		"https://drive.google.com.evil.com/file/d/1/view", // host suffix trick
		"ftp://drive.google.com/file",
		"https://drive.google.com/file/d/1 abc/view", // whitespace inside
	}
	for _, url := range invalid {
		assert.False(t, IsValidDriveLink(url), "expected invalid: %s", url)
	}
}

func TestIsValidRegistrationNo(t *testing.T) {
	assert.True(t, IsValidRegistrationNo("20CS042"))
	assert.True(t, IsValidRegistrationNo("21ECE104"))
	assert.True(t, IsValidRegistrationNo(" 20CS042 "), "surrounding whitespace is trimmed")

	assert.False(t, IsValidRegistrationNo("20cs042"), "lowercase department code")
	assert.False(t, IsValidRegistrationNo("CS042"))
	assert.False(t, IsValidRegistrationNo("20CS"))
	assert.False(t, IsValidRegistrationNo(""))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("jane.doe@univ.edu"))
	assert.True(t, IsValidEmail("JANE@UNIV.EDU"), "emails are compared case-insensitively")
	assert.False(t, IsValidEmail("jane@"))
	assert.False(t, IsValidEmail("not-an-email"))
}

func TestIsValidPassword(t *testing.T) {
	assert.False(t, IsValidPassword("short"))
	assert.True(t, IsValidPassword("longenough"))
}
