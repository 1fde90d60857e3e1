package models

import (
	"time"
)

// RawRecord is a lead exactly as NocoDB returns it.
type RawRecord map[string]interface{}

// Wire field names of the NocoDB leads table.
const (
	FieldID                     = "Id"
	FieldName                   = "Nombre"
	FieldPhone                  = "Phone"
	FieldEmail                  = "Email"
	FieldCreatedAt              = "CreatedAt"
	FieldUpdatedAt              = "Última Modificación"
	FieldState                  = "Estado CRM"
	FieldSchedulingState        = "Estado Agendamiento"
	FieldQualified              = "¿Calificado?"
	FieldNeedsReview            = "Requiere revisión manual"
	FieldAppointmentDate        = "Fecha de agendamiento"
	FieldAppointmentTime        = "Hora Cita"
	FieldAppointmentConfirmed   = "Confirmo Cita"
	FieldResidenceDistrict      = "Distrito Residencia"
	FieldWorkDistrict           = "Distrito Trabajo"
	FieldQualificationDistrict  = "Distrito Usado Para Calificar"
	FieldSaleAmount             = "Monto Venta Cerrada (PEN)"
	FieldPlan                   = "Plan Adquirido"
	FieldOrigin                 = "Origen del Lead"
	FieldDisqualificationReason = "Razón Descalificación"
)

// CRMState is the lifecycle label of a lead.
type CRMState string

const (
	StateNewLead        CRMState = "Nuevo Lead"
	StateInConversation CRMState = "En Conversación"
	StatePrequalified   CRMState = "Precalificado"
	StateDisqualified   CRMState = "Descalificado"
	StateLinkSent       CRMState = "Link Enviado"
	StateScheduled      CRMState = "Agendado"
	StateAttended       CRMState = "Asistió"
	StateNoShow         CRMState = "No Asistió"
	StatePurchased      CRMState = "Compró"
	StateNotPurchased   CRMState = "No Compró"
	StateActiveClient   CRMState = "Cliente Activo"
	StatePlanCompleted  CRMState = "Plan Terminado"
	StateRepurchased    CRMState = "Recompró"
	StateCanceled       CRMState = "Canceló Cita"
	StateRequiresHuman  CRMState = "Requiere Humano"
)

// KnownStates lists every CRM state in lifecycle order.
var KnownStates = []CRMState{
	StateRequiresHuman,
	StateNewLead,
	StateInConversation,
	StatePrequalified,
	StateLinkSent,
	StateScheduled,
	StateAttended,
	StatePurchased,
	StateActiveClient,
	StatePlanCompleted,
	StateRepurchased,
	StateCanceled,
	StateNotPurchased,
	StateNoShow,
	StateDisqualified,
}

// Known reports whether s belongs to the fixed enumeration.
func (s CRMState) Known() bool {
	for _, k := range KnownStates {
		if s == k {
			return true
		}
	}
	return false
}

// UnknownDistrict is the sentinel used when a lead has no district at all.
const UnknownDistrict = "Desconocido"

// Unspecified labels missing categorical values in distributions.
const Unspecified = "Sin especificar"

// Lead is the typed view of a RawRecord. Optional timestamps and amounts are
// nil when the wire value was absent or could not be parsed.
type Lead struct {
	ID                     string     `json:"id"`
	Name                   string     `json:"name"`
	Phone                  string     `json:"phone"`
	Email                  string     `json:"email"`
	CreatedAt              *time.Time `json:"createdAt"`
	UpdatedAt              *time.Time `json:"updatedAt"`
	State                  CRMState   `json:"state"`
	SchedulingState        string     `json:"schedulingState"`
	Qualified              bool       `json:"qualified"`
	NeedsReview            bool       `json:"needsReview"`
	AppointmentAt          *time.Time `json:"appointmentAt"`
	AppointmentTime        string     `json:"appointmentTime"`
	AppointmentConfirmed   bool       `json:"appointmentConfirmed"`
	ResidenceDistrict      string     `json:"residenceDistrict"`
	WorkDistrict           string     `json:"workDistrict"`
	QualificationDistrict  string     `json:"qualificationDistrict"`
	SaleAmount             *float64   `json:"saleAmount"`
	Plan                   string     `json:"plan"`
	Origin                 string     `json:"origin"`
	DisqualificationReason string     `json:"disqualificationReason"`

	// Categories holds every raw field coerced to a display string, empty
	// when the raw value was falsy. Distributions over arbitrary fields read it.
	Categories map[string]string `json:"-"`

	Quality RecordQuality `json:"-"`
}

// District returns the qualification district, falling back to the residence
// district and then to UnknownDistrict.
func (l Lead) District() string {
	if l.QualificationDistrict != "" {
		return l.QualificationDistrict
	}
	if l.ResidenceDistrict != "" {
		return l.ResidenceDistrict
	}
	return UnknownDistrict
}

// Category returns the display value of a wire field, or "" when absent.
func (l Lead) Category(field string) string {
	if l.Categories == nil {
		return ""
	}
	return l.Categories[field]
}

// Amount returns the sale amount, 0 when absent.
func (l Lead) Amount() float64 {
	if l.SaleAmount == nil {
		return 0
	}
	return *l.SaleAmount
}

// InAny reports whether the lead's state is one of states.
func (l Lead) InAny(states ...CRMState) bool {
	for _, s := range states {
		if l.State == s {
			return true
		}
	}
	return false
}

// HasAppointment reports whether an appointment date was recorded, even one
// that could not be parsed.
func (l Lead) HasAppointment() bool {
	return l.AppointmentAt != nil || l.Category(FieldAppointmentDate) != ""
}

// Activity is the last-modified timestamp, or the creation timestamp when the
// record was never modified. A last-modified value that is present but
// unparsable makes the activity unknown (nil).
func (l Lead) Activity() *time.Time {
	if l.UpdatedAt != nil {
		return l.UpdatedAt
	}
	if l.Category(FieldUpdatedAt) != "" {
		return nil
	}
	return l.CreatedAt
}
