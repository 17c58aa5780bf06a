package model

// Role identifies which back-office an account belongs to. It is validated
// once at the request boundary; everything downstream works with the typed
// value.
type Role string

const (
	RoleHospital Role = "hospital"
	RoleLab      Role = "lab"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleHospital, RoleLab:
		return Role(s), true
	}
	return "", false
}

type ConsultationStatus string

const (
	ConsultationStatusPending  ConsultationStatus = "pending"
	ConsultationStatusAccepted ConsultationStatus = "accepted"
	ConsultationStatusRejected ConsultationStatus = "rejected"
)

func ParseConsultationStatus(s string) (ConsultationStatus, bool) {
	switch ConsultationStatus(s) {
	case ConsultationStatusPending, ConsultationStatusAccepted, ConsultationStatusRejected:
		return ConsultationStatus(s), true
	}
	return "", false
}
