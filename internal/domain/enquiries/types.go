package enquiries

// Status define el ciclo de vida de una consulta.
// @Enum unclaimed, claimed, contacted, converted, lost
type Status string

const (
	StatusUnclaimed Status = "unclaimed"
	StatusClaimed   Status = "claimed"
	StatusContacted Status = "contacted"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

// Source indica por dónde entró la consulta. Metadata descriptiva,
// no afecta al ciclo de vida.
type Source string

const (
	SourceWebsite     Source = "website"
	SourceReferral    Source = "referral"
	SourceDirect      Source = "direct"
	SourceSocialMedia Source = "social_media"
	SourceOther       Source = "other"
)

// Priority es metadata descriptiva, sin efecto sobre el claim.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reporta si s es uno de los cinco estados conocidos.
func (s Status) IsValid() bool {
	switch s {
	case StatusUnclaimed, StatusClaimed, StatusContacted, StatusConverted, StatusLost:
		return true
	}
	return false
}

// IsTerminal reporta si s no admite más transiciones.
func (s Status) IsTerminal() bool {
	return s == StatusConverted || s == StatusLost
}

// CanTransition valida la tabla de transiciones para SetStatus.
// El claim NO pasa por aquí: unclaimed -> claimed solo ocurre vía Claim.
//
//	claimed   -> contacted | converted | lost
//	contacted -> converted | lost
//
// La auto-transición (from == to) desde claimed/contacted se trata como
// no-op exitoso en el service, no en esta tabla.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusClaimed:
		return to == StatusContacted || to == StatusConverted || to == StatusLost
	case StatusContacted:
		return to == StatusConverted || to == StatusLost
	default:
		return false
	}
}

func sourceOrDefault(s Source) (Source, bool) {
	if s == "" {
		return SourceWebsite, true
	}
	switch s {
	case SourceWebsite, SourceReferral, SourceDirect, SourceSocialMedia, SourceOther:
		return s, true
	}
	return "", false
}

func priorityOrDefault(p Priority) (Priority, bool) {
	if p == "" {
		return PriorityMedium, true
	}
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	}
	return "", false
}
