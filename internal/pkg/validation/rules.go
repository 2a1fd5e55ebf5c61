package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern - configurable
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Registration number pattern - two digits, department code, two or three digits
	RegistrationNoPattern = `^[0-9]{2}[A-Z]{2,4}[0-9]{2,3}$`

	// DriveLinkPattern matches links into Google Drive / Docs storage.
	// The client applies the same rule before calling, but it is trivially
	// bypassable, so the server re-validates every submitted document URL.
	DriveLinkPattern = `^https://(drive|docs)\.google\.com/[A-Za-z0-9\-._~/?#=&%+]+$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email          *regexp.Regexp
	RegistrationNo *regexp.Regexp
	DriveLink      *regexp.Regexp
}{
	Email:          regexp.MustCompile(EmailPattern),
	RegistrationNo: regexp.MustCompile(RegistrationNoPattern),
	DriveLink:      regexp.MustCompile(DriveLinkPattern),
}

// IsValidEmail reports whether the email matches the expected format.
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// IsValidRegistrationNo reports whether the registration number matches the expected format.
func IsValidRegistrationNo(regNo string) bool {
	return CompiledPatterns.RegistrationNo.MatchString(strings.TrimSpace(regNo))
}

// IsValidDriveLink reports whether the URL points into the designated storage host.
// A bare host with no path is not a document link.
func IsValidDriveLink(url string) bool {
	url = strings.TrimSpace(url)
	if !CompiledPatterns.DriveLink.MatchString(url) {
		return false
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(url, "https://drive.google.com/"), "https://docs.google.com/")
	return len(rest) > 0 && rest != "/"
}

// IsValidPassword reports whether the password satisfies the minimum policy.
func IsValidPassword(password string) bool {
	return len(password) >= PasswordMinLength
}

// IsValidName reports whether a display name has a sane length.
func IsValidName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= NameMinLength && len(name) <= NameMaxLength
}
