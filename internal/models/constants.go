package models

// NotificationType константы типов уведомлений
const (
	NotificationServiceRequest   = "service_request"
	NotificationRequestAccepted  = "request_accepted"
	NotificationRequestRefused   = "request_refused"
	NotificationServiceCompleted = "service_completed"
	NotificationPointsReceived   = "points_received"
)

// ServiceCategory константы категорий услуг
const (
	CategoryHealthcare   = "healthcare"
	CategoryHomeRepairs  = "home_repairs"
	CategoryTechnology   = "technology"
	CategoryConstruction = "construction"
	CategoryBarber       = "barber"
	CategoryTailor       = "tailor"
	CategoryMechanic     = "mechanic"
	CategoryTransport    = "transport"
	CategoryEducation    = "education"
)

// Availability константы доступности услуги
const (
	AvailabilityAvailable = "available"
	AvailabilityBusy      = "busy"
	AvailabilityOffline   = "offline"
)

// StartingPoints начальный баланс нового участника.
const StartingPoints = 50

// MinServicePoints минимальная цена услуги в баллах.
const MinServicePoints = 5

// ValidCategories список валидных категорий услуг
var ValidCategories = map[string]struct{}{
	CategoryHealthcare:   {},
	CategoryHomeRepairs:  {},
	CategoryTechnology:   {},
	CategoryConstruction: {},
	CategoryBarber:       {},
	CategoryTailor:       {},
	CategoryMechanic:     {},
	CategoryTransport:    {},
	CategoryEducation:    {},
}

// ValidAvailabilities список валидных статусов доступности
var ValidAvailabilities = map[string]struct{}{
	AvailabilityAvailable: {},
	AvailabilityBusy:      {},
	AvailabilityOffline:   {},
}
