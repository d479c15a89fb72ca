package app

import (
	"fmt"
	"strings"
	"time"
)

// PhoneLength is the exact number of digits a phone number must have.
const PhoneLength = 10

// ValidName reports whether name is acceptable as a full name.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// ValidPhone reports whether phone is exactly PhoneLength ASCII digits.
func ValidPhone(phone string) bool {
	return len(phone) == PhoneLength && AcceptPhoneInput(phone)
}

// AcceptPhoneInput is the keystroke filter for the phone field: only
// values of at most PhoneLength digits (including empty) get through.
func AcceptPhoneInput(value string) bool {
	if len(value) > PhoneLength {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders seconds as HH:MM:SS. Hours are not wrapped.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds/60)%60, seconds%60)
}

func wholeSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}
