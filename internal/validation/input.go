package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength          = 1
	MaxNameLength          = 100
	MinTitleLength         = 3
	MaxTitleLength         = 200
	MinDescriptionLength   = 10
	MaxDescriptionLength   = 5000
	MaxBioLength           = 1000
	MaxLocationLength      = 100
	MaxTagLength           = 50
	MaxTagsCount           = 20
	MinRequestMessageLen   = 0
	MaxRequestMessageLen   = 2000
	MaxNotificationMessage = 500
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateServiceTitle проверяет название услуги.
func ValidateServiceTitle(title string) error {
	if title == "" {
		return fmt.Errorf("название услуги обязательно")
	}
	return ValidateLength("название услуги", strings.TrimSpace(title), MinTitleLength, MaxTitleLength)
}

// ValidateServiceDescription проверяет описание услуги.
func ValidateServiceDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание услуги обязательно")
	}
	return ValidateLength("описание услуги", strings.TrimSpace(description), MinDescriptionLength, MaxDescriptionLength)
}

// ValidateTags проверяет массив тегов услуги.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTagsCount {
		return fmt.Errorf("количество тегов не может превышать %d", MaxTagsCount)
	}

	seen := make(map[string]bool)
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return fmt.Errorf("тег не может быть пустым")
		}

		if utf8.RuneCountInString(tag) > MaxTagLength {
			return fmt.Errorf("тег не может быть длиннее %d символов", MaxTagLength)
		}

		tagLower := strings.ToLower(tag)
		if seen[tagLower] {
			return fmt.Errorf("тег '%s' указан дважды", tag)
		}
		seen[tagLower] = true
	}

	return nil
}

// ValidateRequestMessage проверяет сообщение запроса услуги.
func ValidateRequestMessage(message string) error {
	return ValidateLength("сообщение", strings.TrimSpace(message), MinRequestMessageLen, MaxRequestMessageLen)
}

// ValidateBio проверяет биографию.
func ValidateBio(bio string) error {
	if bio == "" {
		return nil
	}
	return ValidateLength("биография", strings.TrimSpace(bio), 0, MaxBioLength)
}

// ValidateLocation проверяет местоположение.
func ValidateLocation(location string) error {
	if location == "" {
		return nil
	}
	return ValidateLength("местоположение", strings.TrimSpace(location), 0, MaxLocationLength)
}
