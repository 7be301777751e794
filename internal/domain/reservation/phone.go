package reservation

import "regexp"

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
